package models

// Типы событий жизненного цикла подписки, публикуемых в очередь уведомлений.
const (
	EventSubscriptionConfirmed = "subscription.confirmed"
	EventSubscriptionCanceled  = "subscription.canceled"
)

// SubscriptionEvent публикуется в RabbitMQ после подтверждённого изменения
// состояния подписки и потребляется воркером отправки писем. Публикация
// происходит строго после успешной записи в хранилище.
type SubscriptionEvent struct {
	Type          string `json:"type"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Plan          string `json:"plan"`
	BillingPeriod string `json:"billing_period"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}
