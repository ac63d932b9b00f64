// Package message реализует HTTP-обработчик добавления сообщения в диалог.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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
	AddMessage(ctx context.Context, userID string, req models.DummyMessage) (*models.Message, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить сообщение в диалог
// @Description Добавляет сообщение пользователя или ассистента в диалог.
// @Tags Chat
// @Accept  json
// @Produce  json
// @Param request body models.DummyMessage true "Сообщение"
// @Success 201 {object} models.Message "Созданное сообщение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Диалог принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Диалог не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /conversations/messages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.message"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMessage
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

	msg, err := h.service.AddMessage(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Info("conversation not found", slog.Int("conversation_id", req.ConversationID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("conversation not found"))
		case errors.Is(err, repository.ErrNotOwned):
			log.Error("conversation belongs to another user", slog.Int("conversation_id", req.ConversationID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("conversation belongs to another user"))
		default:
			log.Error("failed to add message", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not add message"))
		}
		return
	}

	log.Info("success to add message", slog.Int("id", msg.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(msg))
}
