package models

import "time"

// Допустимые значения перечислимых полей подписки.
const (
	PlanBasic   = "Basic"
	PlanPremium = "Premium"

	BillingMonthly = "Monthly"
	BillingYearly  = "Yearly"

	ProviderStripe = "Stripe"
	ProviderPayPal = "PayPal"
)

// DateLayout формат дат в JSON-запросах и ответах API.
const DateLayout = "2006-01-02"

// Subscription представляет биллинговую связь пользователя ровно
// с одним внешним провайдером. На пользователя допускается не более
// одной подписки, инвариант обеспечивается уникальным индексом в БД.
type Subscription struct {
	ID            string    `json:"id"`             // Идентификатор записи (id подписки у провайдера либо сгенерированный)
	UserID        string    `json:"user_id"`        // Владелец подписки
	Plan          string    `json:"plan"`           // Тарифный план: Basic или Premium
	StartDate     time.Time `json:"start_date"`     // Дата начала подписки
	EndDate       time.Time `json:"end_date"`       // Дата окончания, строго в будущем на момент создания
	Provider      string    `json:"provider"`       // Платёжный провайдер: Stripe или PayPal
	BillingPeriod string    `json:"billing_period"` // Период оплаты: Monthly или Yearly
}

// DummySubscription используется для приёма данных из JSON-запроса
// на создание подписки до валидации и парсинга дат.
type DummySubscription struct {
	ID            string `json:"id,omitempty"`
	Plan          string `json:"plan" validate:"required,oneof=Basic Premium"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Provider      string `json:"provider" validate:"required,oneof=Stripe PayPal"`
	BillingPeriod string `json:"billing_period" validate:"required,oneof=Monthly Yearly"`
}

// DummySubscriptionUpdate используется для приёма частичного обновления
// подписки. Все поля опциональны, но хотя бы одно должно быть задано,
// проверка выполняется в бизнес-логике.
type DummySubscriptionUpdate struct {
	Plan          *string `json:"plan,omitempty" validate:"omitempty,oneof=Basic Premium"`
	StartDate     *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Provider      *string `json:"provider,omitempty" validate:"omitempty,oneof=Stripe PayPal"`
	BillingPeriod *string `json:"billing_period,omitempty" validate:"omitempty,oneof=Monthly Yearly"`
}

// Empty сообщает, что в запросе не задано ни одно обновляемое поле.
func (u *DummySubscriptionUpdate) Empty() bool {
	return u.Plan == nil && u.StartDate == nil && u.EndDate == nil &&
		u.Provider == nil && u.BillingPeriod == nil
}

// SubscriptionUpdate частичное обновление подписки с уже распарсенными датами.
type SubscriptionUpdate struct {
	Plan          *string
	StartDate     *time.Time
	EndDate       *time.Time
	Provider      *string
	BillingPeriod *string
}
