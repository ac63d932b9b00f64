// Package ai реализует HTTP-обработчик диалога с ветеринарным ассистентом.
//
// История переписки передается модели вместе с профилем кота, ответ
// не сохраняется: клиент фиксирует сообщения отдельными запросами.
package ai

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

// Request — структура входных данных запроса к ассистенту.
type Request struct {
	CatID    int               `json:"cat_id" validate:"required"`
	Messages []models.ChatTurn `json:"messages" validate:"required,min=1,dive"`
	Language string            `json:"language,omitempty"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Chat(ctx context.Context, userID string, catID int, turns []models.ChatTurn, language string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запрос к ветеринарному ассистенту
// @Description Отправляет историю переписки ассистенту вместе с профилем кота и возвращает ответ.
// @Tags OpenAI
// @Accept  json
// @Produce  json
// @Param request body Request true "История переписки"
// @Success 200 {object} map[string]any "Ответ ассистента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Кот не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /openai/chat [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.ai"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	answer, err := h.service.Chat(r.Context(), userID, req.CatID, req.Messages, req.Language)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("cat not found", slog.Int("cat_id", req.CatID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Cat not found"))
			return
		}
		log.Error("failed to get assistant reply", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get assistant reply"))
		return
	}

	log.Info("success to get assistant reply")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": answer,
	}))
}
