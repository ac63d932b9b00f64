// Package create реализует HTTP-обработчик создания профиля кота.
//
// При создании рекомендации по уходу рассчитываются ассистентом
// и сохраняются вместе с профилем.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/kittycareapp/kittycare-server/internal/http/middlewarectx"
	"github.com/kittycareapp/kittycare-server/internal/http/response"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Create(ctx context.Context, userID string, req models.DummyCat) (*models.Cat, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать профиль кота
// @Description Создает профиль кота и рассчитывает рекомендации по уходу.
// @Tags Cats
// @Accept  json
// @Produce  json
// @Param request body models.DummyCat true "Данные кота"
// @Success 201 {object} models.Cat "Созданный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /cats [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cat.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCat
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	cat, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create cat", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create cat"))
		return
	}

	log.Info("success to create cat", slog.Int("id", cat.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(cat))
}
