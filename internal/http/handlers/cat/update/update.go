// Package update реализует HTTP-обработчик частичного обновления профиля кота.
//
// Изменение веса, целевого веса или уровня активности влечёт пересчёт
// рекомендаций по уходу.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/kittycareapp/kittycare-server/internal/http/middlewarectx"
	"github.com/kittycareapp/kittycare-server/internal/http/response"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/models"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Update(ctx context.Context, id int, userID string, req models.DummyCatUpdate) (*models.Cat, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить профиль кота
// @Description Частично обновляет профиль кота. При изменении веса, целевого веса или активности рекомендации пересчитываются.
// @Tags Cats
// @Accept  json
// @Produce  json
// @Param id path int true "ID кота"
// @Param request body models.DummyCatUpdate true "Изменяемые поля"
// @Success 200 {object} models.Cat "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустое обновление"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Кот принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Кот не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /cats/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cat.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var req models.DummyCatUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if req.Empty() {
		log.Error("empty update request")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("at least one field must be provided"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	cat, err := h.service.Update(r.Context(), id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Info("cat not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("cat not found"))
		case errors.Is(err, repository.ErrNotOwned):
			log.Error("cat belongs to another user", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("cat belongs to another user"))
		default:
			log.Error("failed to update cat", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update cat"))
		}
		return
	}

	log.Info("success to update cat", slog.Int("id", cat.ID))
	render.JSON(w, r, response.OKWithData(cat))
}
