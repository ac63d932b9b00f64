// Package stripe реализует клиент Stripe API для оформления
// и отмены подписок.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Stripe.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     "https://api.stripe.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL переопределяет адрес API. Используется в тестах.
func (c *Client) WithBaseURL(apiURL string) *Client {
	c.apiURL = apiURL
	return c
}

// Stripe принимает тело запроса в application/x-www-form-urlencoded.
func (c *Client) newRequest(ctx context.Context, method, path string, form url.Values, idempotencyKey string) (*http.Request, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
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

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error.Message != "" {
			return fmt.Errorf("stripe: %s", errResp.Error.Message)
		}
		return fmt.Errorf("stripe: unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// CreateSubscription создаёт покупателя и оформляет на него подписку.
// Ключ идемпотентности защищает от повторного списания при ретраях.
func (c *Client) CreateSubscription(ctx context.Context, reqParams CreateSubscriptionRequest, idempotencyKey string) (*Result, error) {
	customerForm := url.Values{}
	customerForm.Set("name", reqParams.Name)
	customerForm.Set("email", reqParams.Email)
	customerForm.Set("payment_method", reqParams.PaymentMethodID)
	customerForm.Set("invoice_settings[default_payment_method]", reqParams.PaymentMethodID)

	req, err := c.newRequest(ctx, http.MethodPost, "/customers", customerForm, idempotencyKey+":customer")
	if err != nil {
		return nil, err
	}
	var customer customerResponse
	if err := c.do(req, &customer); err != nil {
		return &Result{Success: false, Error: err.Error()}, nil
	}

	subForm := url.Values{}
	subForm.Set("customer", customer.ID)
	subForm.Set("items[0][price]", reqParams.PriceID)
	if reqParams.TrialEnd > 0 {
		subForm.Set("trial_end", strconv.FormatInt(reqParams.TrialEnd, 10))
	}

	req, err = c.newRequest(ctx, http.MethodPost, "/subscriptions", subForm, idempotencyKey+":subscription")
	if err != nil {
		return nil, err
	}
	var sub subscriptionResponse
	if err := c.do(req, &sub); err != nil {
		return &Result{Success: false, Error: err.Error()}, nil
	}

	return &Result{
		Success:        true,
		SubscriptionID: sub.ID,
		CustomerID:     customer.ID,
		Status:         sub.Status,
	}, nil
}

// CancelSubscription отменяет подписку Stripe по её ID.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*Result, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, "/subscriptions/"+subscriptionID, nil, "")
	if err != nil {
		return nil, err
	}
	var sub subscriptionResponse
	if err := c.do(req, &sub); err != nil {
		return &Result{Success: false, Error: err.Error()}, nil
	}
	return &Result{
		Success:        true,
		SubscriptionID: sub.ID,
		Status:         sub.Status,
	}, nil
}
