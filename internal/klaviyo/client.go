// Package klaviyo реализует клиент аналитики Klaviyo: создание
// профилей при регистрации и отправка событий жизненного цикла подписок.
package klaviyo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const apiRevision = "2024-10-15"

type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Klaviyo.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     "https://a.klaviyo.com/api",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL переопределяет адрес API. Используется в тестах.
func (c *Client) WithBaseURL(apiURL string) *Client {
	c.apiURL = apiURL
	return c
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Klaviyo-API-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Revision", apiRevision)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("klaviyo: unexpected status %s", resp.Status)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

type profileResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CreateProfile создаёт профиль и подписывает его на email-рассылку.
func (c *Client) CreateProfile(ctx context.Context, email, firstName, lastName string, phoneNumber *string) error {
	const op = "klaviyo.CreateProfile"

	attributes := map[string]any{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
	}
	if phoneNumber != nil {
		attributes["phone_number"] = *phoneNumber
	}
	profile := map[string]any{
		"data": map[string]any{
			"type":       "profile",
			"attributes": attributes,
		},
	}

	var created profileResponse
	if err := c.post(ctx, "/profiles", profile, &created); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subscribe := map[string]any{
		"data": map[string]any{
			"type": "profile-subscription-bulk-create-job",
			"attributes": map[string]any{
				"profiles": map[string]any{
					"data": []any{
						map[string]any{
							"type": "profile",
							"id":   created.Data.ID,
							"attributes": map[string]any{
								"email": email,
								"subscriptions": map[string]any{
									"email": map[string]any{
										"marketing": map[string]any{
											"consent":      "SUBSCRIBED",
											"consented_at": time.Now().UTC().Format("2006-01-02T15:04:05Z"),
										},
									},
								},
							},
						},
					},
				},
				"custom_source":     "Sign Up Form",
				"historical_import": true,
			},
		},
	}
	if err := c.post(ctx, "/profile-subscription-bulk-create-jobs", subscribe, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateEvent отправляет событие, привязанное к профилю по email.
func (c *Client) CreateEvent(ctx context.Context, eventName, email string) error {
	const op = "klaviyo.CreateEvent"

	event := map[string]any{
		"data": map[string]any{
			"type": "event",
			"attributes": map[string]any{
				"properties": map[string]any{
					"action": eventName,
				},
				"metric": map[string]any{
					"data": map[string]any{
						"type": "metric",
						"attributes": map[string]any{
							"name": eventName,
						},
					},
				},
				"profile": map[string]any{
					"data": map[string]any{
						"type": "profile",
						"attributes": map[string]any{
							"email": email,
						},
					},
				},
			},
		},
	}
	if err := c.post(ctx, "/events", event, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
