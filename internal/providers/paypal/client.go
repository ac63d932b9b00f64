// Package paypal реализует клиент PayPal Billing API: каталог товаров,
// тарифы и подписки.
package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kittycareapp/kittycare-server/internal/models"
)

type Client struct {
	clientID   string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент PayPal. baseURL указывает на sandbox
// или production окружение.
func NewClient(clientID, secretKey, baseURL string) *Client {
	return &Client{
		clientID:   clientID,
		secretKey:  secretKey,
		apiURL:     baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, requestID string) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "return=representation")
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Message != "" {
			return fmt.Errorf("paypal: %s", errResp.Message)
		}
		return fmt.Errorf("paypal: unexpected status %s", resp.Status)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// ListProducts возвращает товары каталога PayPal.
func (c *Client) ListProducts(ctx context.Context) (*ProductList, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/catalogs/products?total_required=true", nil, "")
	if err != nil {
		return nil, err
	}
	var list ProductList
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateProduct создаёт товар каталога, к которому привязываются тарифы.
func (c *Client) CreateProduct(ctx context.Context, requestID string) (*Product, error) {
	payload := productRequest{
		Name:        "Cat care AI Service",
		Description: "Cat care AI service",
		Type:        "SERVICE",
		Category:    "SOFTWARE",
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/catalogs/products", payload, requestID)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := c.do(req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListPlans возвращает биллинговые тарифы, отсортированные по дате
// создания, начиная с новых.
func (c *Client) ListPlans(ctx context.Context) (*PlanList, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/billing/plans?sort_by=create_time&sort_order=desc", nil, "")
	if err != nil {
		return nil, err
	}
	var list PlanList
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreatePlan создаёт биллинговый тариф для товара. Месячный тариф
// включает трёхдневный пробный период, годовой — семидневный.
func (c *Client) CreatePlan(ctx context.Context, billingPeriod, productID, requestID string) (*Plan, error) {
	payload := planBody(billingPeriod, productID)
	req, err := c.newRequest(ctx, http.MethodPost, "/billing/plans", payload, requestID)
	if err != nil {
		return nil, err
	}
	var plan Plan
	if err := c.do(req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreateSubscription оформляет подписку на тариф. Списание начинается
// через час, чтобы покупатель успел подтвердить оплату по approve-ссылке.
func (c *Client) CreateSubscription(ctx context.Context, planID string, subscriber Subscriber, returnURL, cancelURL, requestID string) (*Subscription, error) {
	payload := subscriptionRequest{
		PlanID:     planID,
		StartTime:  time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		Subscriber: subscriber,
		ApplicationContext: applicationContext{
			BrandName:          "KittyCare",
			Locale:             "en-US",
			ShippingPreference: "SET_PROVIDED_ADDRESS",
			UserAction:         "SUBSCRIBE_NOW",
			PaymentMethod: paymentMethod{
				PayerSelected:  "PAYPAL",
				PayeePreferred: "IMMEDIATE_PAYMENT_REQUIRED",
			},
			ReturnURL: returnURL,
			CancelURL: cancelURL,
		},
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/billing/subscriptions", payload, requestID)
	if err != nil {
		return nil, err
	}
	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription отменяет подписку PayPal по её ID.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/billing/subscriptions/"+subscriptionID+"/cancel", cancelRequest{Reason: reason}, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

var defaultPaymentPreferences = paymentPreferences{
	AutoBillOutstanding:     true,
	SetupFee:                money{Value: "0", CurrencyCode: "USD"},
	SetupFeeFailureAction:   "CONTINUE",
	PaymentFailureThreshold: 3,
}

var defaultTaxes = taxes{Percentage: "0", Inclusive: false}

func planBody(billingPeriod, productID string) planRequest {
	if billingPeriod == models.BillingMonthly {
		return planRequest{
			ProductID:   productID,
			Name:        "Monthly Subscription Plan",
			Description: "Monthly plan with a 3-day free trial",
			Status:      "ACTIVE",
			BillingCycles: []billingCycle{
				{
					Frequency:     frequency{IntervalUnit: "DAY", IntervalCount: 1},
					TenureType:    "TRIAL",
					Sequence:      1,
					TotalCycles:   3,
					PricingScheme: pricingScheme{FixedPrice: money{Value: "0", CurrencyCode: "USD"}},
				},
				{
					Frequency:     frequency{IntervalUnit: "MONTH", IntervalCount: 1},
					TenureType:    "REGULAR",
					Sequence:      2,
					TotalCycles:   12,
					PricingScheme: pricingScheme{FixedPrice: money{Value: "49.99", CurrencyCode: "USD"}},
				},
			},
			PaymentPreferences: defaultPaymentPreferences,
			Taxes:              defaultTaxes,
		}
	}
	return planRequest{
		ProductID:   productID,
		Name:        "Annual Subscription Plan",
		Description: "Annual plan with a 7-day free trial",
		Status:      "ACTIVE",
		BillingCycles: []billingCycle{
			{
				Frequency:     frequency{IntervalUnit: "DAY", IntervalCount: 1},
				TenureType:    "TRIAL",
				Sequence:      1,
				TotalCycles:   7,
				PricingScheme: pricingScheme{FixedPrice: money{Value: "0", CurrencyCode: "USD"}},
			},
			{
				Frequency:     frequency{IntervalUnit: "YEAR", IntervalCount: 1},
				TenureType:    "REGULAR",
				Sequence:      2,
				TotalCycles:   1,
				PricingScheme: pricingScheme{FixedPrice: money{Value: "299.99", CurrencyCode: "USD"}},
			},
		},
		PaymentPreferences: defaultPaymentPreferences,
		Taxes:              defaultTaxes,
	}
}
