// Package recommend реализует HTTP-обработчик расчёта рекомендаций по уходу
// для переданного профиля кота без обращения к хранилищу.
package recommend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kittycareapp/kittycare-server/internal/http/response"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Recommendations(ctx context.Context, cat *models.Cat) (*models.Recommendations, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Рекомендации по уходу
// @Description Рассчитывает KPI по уходу для переданного профиля кота.
// @Tags OpenAI
// @Accept  json
// @Produce  json
// @Param request body models.Cat true "Профиль кота"
// @Success 200 {object} models.Recommendations "Рекомендации по уходу"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /openai/recommendations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.recommend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var cat models.Cat
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	rec, err := h.service.Recommendations(r.Context(), &cat)
	if err != nil {
		log.Error("failed to get recommendations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get recommendations"))
		return
	}

	log.Info("success to get recommendations")
	render.JSON(w, r, response.OKWithData(rec))
}
