// Package paypalcancel реализует HTTP-обработчик отмены подписки PayPal.
package paypalcancel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kittycareapp/kittycare-server/internal/http/response"
	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
)

// Request — структура входных данных отмены подписки PayPal.
type Request struct {
	Reason string `json:"reason,omitempty"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	CancelPayPalSubscription(ctx context.Context, subscriptionID, reason string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку PayPal
// @Description Отменяет подписку PayPal по её идентификатору с указанием причины.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param id path string true "ID подписки PayPal"
// @Param request body Request false "Причина отмены"
// @Success 200 {object} response.Response "Подписка отменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /payments/paypal/subscription/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paypalcancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing subscription id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var req Request
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Info("no cancellation reason provided")
		}
	}

	if err := h.service.CancelPayPalSubscription(r.Context(), id, req.Reason); err != nil {
		log.Error("failed to cancel paypal subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel paypal subscription"))
		return
	}

	log.Info("paypal subscription canceled", slog.String("id", id))
	render.JSON(w, r, response.OK())
}
