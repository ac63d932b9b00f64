package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kittycareapp/kittycare-server/internal/providers/paypal"
	"github.com/kittycareapp/kittycare-server/internal/providers/stripe"
)

type StripeMock struct{ mock.Mock }

func (m *StripeMock) CreateSubscription(ctx context.Context, req stripe.CreateSubscriptionRequest, idempotencyKey string) (*stripe.Result, error) {
	args := m.Called(ctx, req, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Result), args.Error(1)
}
func (m *StripeMock) CancelSubscription(ctx context.Context, subscriptionID string) (*stripe.Result, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Result), args.Error(1)
}

type PayPalMock struct{ mock.Mock }

func (m *PayPalMock) ListProducts(ctx context.Context) (*paypal.ProductList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.ProductList), args.Error(1)
}
func (m *PayPalMock) CreateProduct(ctx context.Context, requestID string) (*paypal.Product, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Product), args.Error(1)
}
func (m *PayPalMock) ListPlans(ctx context.Context) (*paypal.PlanList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.PlanList), args.Error(1)
}
func (m *PayPalMock) CreatePlan(ctx context.Context, billingPeriod, productID, requestID string) (*paypal.Plan, error) {
	args := m.Called(ctx, billingPeriod, productID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Plan), args.Error(1)
}
func (m *PayPalMock) CreateSubscription(ctx context.Context, planID string, subscriber paypal.Subscriber, returnURL, cancelURL, requestID string) (*paypal.Subscription, error) {
	args := m.Called(ctx, planID, subscriber, returnURL, cancelURL, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Subscription), args.Error(1)
}
func (m *PayPalMock) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	return m.Called(ctx, subscriptionID, reason).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestResolveIdempotencyKey(t *testing.T) {
	assert.Equal(t, "client-key", ResolveIdempotencyKey("client-key"))

	generated := ResolveIdempotencyKey("")
	assert.NotEmpty(t, generated)
	assert.NotEqual(t, generated, ResolveIdempotencyKey(""))
}

func TestPaymentService_CreateStripeSubscription(t *testing.T) {
	req := StripeSubscriptionRequest{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		PaymentMethodID: "pm_123",
		PriceID:         "price_123",
	}

	t.Run("passes idempotency key through", func(t *testing.T) {
		stripeMock := new(StripeMock)
		svc := NewPaymentService(stripeMock, new(PayPalMock), newNoopLogger())
		stripeMock.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(r stripe.CreateSubscriptionRequest) bool {
			return r.Email == "jane@example.com" && r.PriceID == "price_123"
		}), "client-key").Return(&stripe.Result{Success: true, SubscriptionID: "sub_1"}, nil).Once()

		result, err := svc.CreateStripeSubscription(context.Background(), req, "client-key")

		assert.NoError(t, err)
		assert.True(t, result.Success)
		stripeMock.AssertExpectations(t)
	})

	t.Run("generates key when header missing", func(t *testing.T) {
		stripeMock := new(StripeMock)
		svc := NewPaymentService(stripeMock, new(PayPalMock), newNoopLogger())
		stripeMock.On("CreateSubscription", mock.Anything, mock.Anything, mock.MatchedBy(func(key string) bool {
			return key != ""
		})).Return(&stripe.Result{Success: true}, nil).Once()

		_, err := svc.CreateStripeSubscription(context.Background(), req, "")

		assert.NoError(t, err)
		stripeMock.AssertExpectations(t)
	})

	t.Run("provider decline is not a transport error", func(t *testing.T) {
		stripeMock := new(StripeMock)
		svc := NewPaymentService(stripeMock, new(PayPalMock), newNoopLogger())
		stripeMock.On("CreateSubscription", mock.Anything, mock.Anything, mock.Anything).
			Return(&stripe.Result{Success: false, Error: "Your card was declined."}, nil).Once()

		result, err := svc.CreateStripeSubscription(context.Background(), req, "key")

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Your card was declined.", result.Error)
	})
}

func TestPaymentService_CreatePayPalSubscription(t *testing.T) {
	paypalMock := new(PayPalMock)
	svc := NewPaymentService(new(StripeMock), paypalMock, newNoopLogger())
	paypalMock.On("CreateSubscription", mock.Anything, "P-PLAN", mock.MatchedBy(func(s paypal.Subscriber) bool {
		return s.Name.GivenName == "Jane" && s.Name.Surname == "Doe" && s.EmailAddress == "jane@example.com"
	}), "https://app/return", "https://app/cancel", "req-1").
		Return(&paypal.Subscription{ID: "I-SUB", Status: "APPROVAL_PENDING"}, nil).Once()

	sub, err := svc.CreatePayPalSubscription(context.Background(), PayPalSubscriptionRequest{
		PlanID:    "P-PLAN",
		GivenName: "Jane",
		Surname:   "Doe",
		Email:     "jane@example.com",
		ReturnURL: "https://app/return",
		CancelURL: "https://app/cancel",
	}, "req-1")

	assert.NoError(t, err)
	assert.Equal(t, "I-SUB", sub.ID)
	paypalMock.AssertExpectations(t)
}

func TestPaymentService_CancelPayPalSubscription(t *testing.T) {
	t.Run("default reason", func(t *testing.T) {
		paypalMock := new(PayPalMock)
		svc := NewPaymentService(new(StripeMock), paypalMock, newNoopLogger())
		paypalMock.On("CancelSubscription", mock.Anything, "I-SUB", "Customer requested cancellation").
			Return(nil).Once()

		assert.NoError(t, svc.CancelPayPalSubscription(context.Background(), "I-SUB", ""))
		paypalMock.AssertExpectations(t)
	})

	t.Run("explicit reason", func(t *testing.T) {
		paypalMock := new(PayPalMock)
		svc := NewPaymentService(new(StripeMock), paypalMock, newNoopLogger())
		paypalMock.On("CancelSubscription", mock.Anything, "I-SUB", "Too expensive").Return(nil).Once()

		assert.NoError(t, svc.CancelPayPalSubscription(context.Background(), "I-SUB", "Too expensive"))
	})
}

func TestPaymentService_Catalog(t *testing.T) {
	paypalMock := new(PayPalMock)
	svc := NewPaymentService(new(StripeMock), paypalMock, newNoopLogger())

	paypalMock.On("CreateProduct", mock.Anything, mock.MatchedBy(func(id string) bool {
		return len(id) > len("PRODUCT-") && id[:8] == "PRODUCT-"
	})).Return(&paypal.Product{ID: "PROD-1"}, nil).Once()
	paypalMock.On("CreatePlan", mock.Anything, "Monthly", "PROD-1", mock.MatchedBy(func(id string) bool {
		return len(id) > len("PLAN-") && id[:5] == "PLAN-"
	})).Return(&paypal.Plan{ID: "P-1"}, nil).Once()

	product, err := svc.CreatePayPalProduct(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "PROD-1", product.ID)

	plan, err := svc.CreatePayPalPlan(context.Background(), "Monthly", "PROD-1")
	assert.NoError(t, err)
	assert.Equal(t, "P-1", plan.ID)
	paypalMock.AssertExpectations(t)
}
