// Package remove реализует HTTP-обработчик удаления профиля кота.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kittycareapp/kittycare-server/internal/http/middlewarectx"
	"github.com/kittycareapp/kittycare-server/internal/http/response"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Delete(ctx context.Context, id int, userID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить профиль кота
// @Description Удаляет профиль кота текущего пользователя.
// @Tags Cats
// @Produce  json
// @Param id path int true "ID кота"
// @Success 200 {object} response.Response "Профиль удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Кот принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Кот не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /cats/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cat.remove"

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

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
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
			log.Error("failed to delete cat", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete cat"))
		}
		return
	}

	log.Info("success to delete cat", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
