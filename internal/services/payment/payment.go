// Package services содержит бизнес-логику работы с платёжными
// провайдерами Stripe и PayPal.
package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kittycareapp/kittycare-server/internal/providers/paypal"
	"github.com/kittycareapp/kittycare-server/internal/providers/stripe"
)

// StripeClient описывает контракт клиента Stripe.
type StripeClient interface {
	CreateSubscription(ctx context.Context, req stripe.CreateSubscriptionRequest, idempotencyKey string) (*stripe.Result, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*stripe.Result, error)
}

// PayPalClient описывает контракт клиента PayPal.
type PayPalClient interface {
	ListProducts(ctx context.Context) (*paypal.ProductList, error)
	CreateProduct(ctx context.Context, requestID string) (*paypal.Product, error)
	ListPlans(ctx context.Context) (*paypal.PlanList, error)
	CreatePlan(ctx context.Context, billingPeriod, productID, requestID string) (*paypal.Plan, error)
	CreateSubscription(ctx context.Context, planID string, subscriber paypal.Subscriber, returnURL, cancelURL, requestID string) (*paypal.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID, reason string) error
}

// StripeSubscriptionRequest параметры оформления подписки Stripe.
type StripeSubscriptionRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
	PriceID         string `json:"priceId" validate:"required"`
	TrialEnd        int64  `json:"trial_end,omitempty"`
}

// PayPalSubscriptionRequest параметры оформления подписки PayPal.
type PayPalSubscriptionRequest struct {
	PlanID    string `json:"plan_id" validate:"required"`
	GivenName string `json:"given_name" validate:"required"`
	Surname   string `json:"surname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	ReturnURL string `json:"return_url" validate:"required,url"`
	CancelURL string `json:"cancel_url" validate:"required,url"`
}

// PaymentService оркестрирует вызовы платёжных провайдеров. Ключ
// идемпотентности пробрасывается провайдеру, чтобы ретраи клиента
// не приводили к повторному списанию.
type PaymentService struct {
	stripe StripeClient
	paypal PayPalClient
	log    *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(stripeClient StripeClient, paypalClient PayPalClient, log *slog.Logger) *PaymentService {
	return &PaymentService{
		stripe: stripeClient,
		paypal: paypalClient,
		log:    log,
	}
}

// ResolveIdempotencyKey возвращает ключ из запроса либо генерирует новый.
func ResolveIdempotencyKey(key string) string {
	if key != "" {
		return key
	}
	return uuid.NewString()
}

// CreateStripeSubscription создает покупателя и подписку в Stripe.
func (s *PaymentService) CreateStripeSubscription(ctx context.Context, req StripeSubscriptionRequest, idempotencyKey string) (*stripe.Result, error) {
	result, err := s.stripe.CreateSubscription(ctx, stripe.CreateSubscriptionRequest{
		Name:            req.Name,
		Email:           req.Email,
		PaymentMethodID: req.PaymentMethodID,
		PriceID:         req.PriceID,
		TrialEnd:        req.TrialEnd,
	}, ResolveIdempotencyKey(idempotencyKey))
	if err != nil {
		return nil, err
	}
	if !result.Success {
		s.log.Warn("stripe subscription creation failed", slog.String("error", result.Error))
	}
	return result, nil
}

// CancelStripeSubscription отменяет подписку Stripe.
func (s *PaymentService) CancelStripeSubscription(ctx context.Context, subscriptionID string) (*stripe.Result, error) {
	result, err := s.stripe.CancelSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		s.log.Warn("stripe subscription cancellation failed", slog.String("error", result.Error))
	}
	return result, nil
}

// CreatePayPalSubscription оформляет подписку PayPal и возвращает её
// вместе с approve-ссылкой для подтверждения оплаты.
func (s *PaymentService) CreatePayPalSubscription(ctx context.Context, req PayPalSubscriptionRequest, idempotencyKey string) (*paypal.Subscription, error) {
	var subscriber paypal.Subscriber
	subscriber.Name.GivenName = req.GivenName
	subscriber.Name.Surname = req.Surname
	subscriber.EmailAddress = req.Email

	return s.paypal.CreateSubscription(ctx, req.PlanID, subscriber,
		req.ReturnURL, req.CancelURL, ResolveIdempotencyKey(idempotencyKey))
}

// CancelPayPalSubscription отменяет подписку PayPal.
func (s *PaymentService) CancelPayPalSubscription(ctx context.Context, subscriptionID, reason string) error {
	if reason == "" {
		reason = "Customer requested cancellation"
	}
	return s.paypal.CancelSubscription(ctx, subscriptionID, reason)
}

// ListPayPalProducts возвращает товары каталога PayPal.
func (s *PaymentService) ListPayPalProducts(ctx context.Context) (*paypal.ProductList, error) {
	return s.paypal.ListProducts(ctx)
}

// CreatePayPalProduct создает товар каталога PayPal.
func (s *PaymentService) CreatePayPalProduct(ctx context.Context) (*paypal.Product, error) {
	return s.paypal.CreateProduct(ctx, "PRODUCT-"+uuid.NewString())
}

// ListPayPalPlans возвращает биллинговые тарифы PayPal.
func (s *PaymentService) ListPayPalPlans(ctx context.Context) (*paypal.PlanList, error) {
	return s.paypal.ListPlans(ctx)
}

// CreatePayPalPlan создает биллинговый тариф PayPal.
func (s *PaymentService) CreatePayPalPlan(ctx context.Context, billingPeriod, productID string) (*paypal.Plan, error) {
	return s.paypal.CreatePlan(ctx, billingPeriod, productID, "PLAN-"+uuid.NewString())
}
