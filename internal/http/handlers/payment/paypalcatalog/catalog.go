// Package paypalcatalog реализует HTTP-обработчики администрирования
// каталога PayPal: товары и биллинговые тарифы. Четыре эндпоинта
// собраны в одном пакете, так как делят один сервисный интерфейс.
package paypalcatalog

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
	"github.com/kittycareapp/kittycare-server/internal/providers/paypal"
)

// CreatePlanRequest — структура входных данных создания тарифа.
type CreatePlanRequest struct {
	BillingPeriod string `json:"billing_period" validate:"required,oneof=Monthly Yearly"`
	ProductID     string `json:"product_id" validate:"required"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	ListPayPalProducts(ctx context.Context) (*paypal.ProductList, error)
	CreatePayPalProduct(ctx context.Context) (*paypal.Product, error)
	ListPayPalPlans(ctx context.Context) (*paypal.PlanList, error)
	CreatePayPalPlan(ctx context.Context, billingPeriod, productID string) (*paypal.Plan, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ListProducts godoc
// @Summary Список товаров PayPal
// @Tags Payments
// @Produce  json
// @Success 200 {object} paypal.ProductList "Товары каталога"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /payments/paypal/products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paypalcatalog.listproducts"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListPayPalProducts(r.Context())
	if err != nil {
		log.Error("failed to list paypal products", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list paypal products"))
		return
	}

	log.Info("success to list paypal products", slog.Int("count", list.TotalItems))
	render.JSON(w, r, response.OKWithData(list))
}

// CreateProduct godoc
// @Summary Создать товар PayPal
// @Tags Payments
// @Produce  json
// @Success 201 {object} paypal.Product "Созданный товар"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /payments/paypal/products [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paypalcatalog.createproduct"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	product, err := h.service.CreatePayPalProduct(r.Context())
	if err != nil {
		log.Error("failed to create paypal product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create paypal product"))
		return
	}

	log.Info("success to create paypal product", slog.String("id", product.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(product))
}

// ListPlans godoc
// @Summary Список тарифов PayPal
// @Tags Payments
// @Produce  json
// @Success 200 {object} paypal.PlanList "Биллинговые тарифы"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /payments/paypal/plans [get]
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paypalcatalog.listplans"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListPayPalPlans(r.Context())
	if err != nil {
		log.Error("failed to list paypal plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list paypal plans"))
		return
	}

	log.Info("success to list paypal plans", slog.Int("count", len(list.Plans)))
	render.JSON(w, r, response.OKWithData(list))
}

// CreatePlan godoc
// @Summary Создать тариф PayPal
// @Description Создает биллинговый тариф для товара. Месячный тариф включает трёхдневный пробный период, годовой — семидневный.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body CreatePlanRequest true "Период и товар"
// @Success 201 {object} paypal.Plan "Созданный тариф"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /payments/paypal/plans [post]
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paypalcatalog.createplan"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req CreatePlanRequest
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

	plan, err := h.service.CreatePayPalPlan(r.Context(), req.BillingPeriod, req.ProductID)
	if err != nil {
		log.Error("failed to create paypal plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create paypal plan"))
		return
	}

	log.Info("success to create paypal plan", slog.String("id", plan.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(plan))
}
