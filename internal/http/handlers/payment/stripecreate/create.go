// Package stripecreate реализует HTTP-обработчик оформления подписки Stripe.
//
// Ключ идемпотентности из заголовка X-Idempotency-Key пробрасывается
// в Stripe, чтобы ретраи клиента не приводили к повторному списанию.
package stripecreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/kittycareapp/kittycare-server/internal/http/response"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	"github.com/kittycareapp/kittycare-server/internal/providers/stripe"
	services "github.com/kittycareapp/kittycare-server/internal/services/payment"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	CreateStripeSubscription(ctx context.Context, req services.StripeSubscriptionRequest, idempotencyKey string) (*stripe.Result, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить подписку Stripe
// @Description Создает покупателя и подписку в Stripe. Ключ идемпотентности берется из заголовка X-Idempotency-Key.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Idempotency-Key header string false "Ключ идемпотентности"
// @Param request body services.StripeSubscriptionRequest true "Данные оформления"
// @Success 200 {object} stripe.Result "Результат оформления"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /payments/stripe/subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.stripecreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req services.StripeSubscriptionRequest
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

	idempotencyKey := r.Header.Get("X-Idempotency-Key")
	result, err := h.service.CreateStripeSubscription(r.Context(), req, idempotencyKey)
	if err != nil {
		log.Error("failed to create stripe subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create stripe subscription"))
		return
	}

	log.Info("stripe subscription processed", slog.Bool("success", result.Success))
	render.JSON(w, r, response.OKWithData(result))
}
