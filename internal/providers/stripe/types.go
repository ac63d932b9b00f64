package stripe

// CreateSubscriptionRequest параметры оформления подписки в Stripe.
type CreateSubscriptionRequest struct {
	Name            string
	Email           string
	PaymentMethodID string
	PriceID         string
	// TrialEnd unix-время окончания пробного периода, 0 если без пробного.
	TrialEnd int64
}

// Result единый результат операций Stripe, возвращаемый сервисному слою.
type Result struct {
	Success        bool   `json:"success"`
	SubscriptionID string `json:"id,omitempty"`
	CustomerID     string `json:"customer_id,omitempty"`
	Status         string `json:"status,omitempty"`
	Error          string `json:"error,omitempty"`
}

type customerResponse struct {
	ID string `json:"id"`
}

type subscriptionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
