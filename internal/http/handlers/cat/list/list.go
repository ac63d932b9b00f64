// Package list реализует HTTP-обработчик получения списка котов пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kittycareapp/kittycare-server/internal/http/middlewarectx"
	"github.com/kittycareapp/kittycare-server/internal/http/response"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	List(ctx context.Context, userID string) ([]*models.Cat, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список котов пользователя
// @Description Возвращает всех котов текущего пользователя с рекомендациями по уходу.
// @Tags Cats
// @Produce  json
// @Success 200 {array} models.Cat "Коты пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /cats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cat.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	cats, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list cats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list cats"))
		return
	}
	if cats == nil {
		cats = []*models.Cat{}
	}

	log.Info("success to list cats", slog.Int("count", len(cats)))
	render.JSON(w, r, response.OKWithData(cats))
}
