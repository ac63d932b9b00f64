package paypal

// Product товар каталога PayPal, к которому привязываются тарифы.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	CreateTime  string `json:"create_time,omitempty"`
}

// ProductList ответ на запрос списка товаров.
type ProductList struct {
	Products   []Product `json:"products"`
	TotalItems int       `json:"total_items"`
}

// Plan биллинговый тариф PayPal.
type Plan struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	CreateTime  string `json:"create_time,omitempty"`
}

// PlanList ответ на запрос списка тарифов.
type PlanList struct {
	Plans []Plan `json:"plans"`
}

// Subscriber данные подписчика для оформления подписки.
type Subscriber struct {
	Name struct {
		GivenName string `json:"given_name"`
		Surname   string `json:"surname"`
	} `json:"name"`
	EmailAddress string `json:"email_address"`
}

// Subscription подписка PayPal.
type Subscription struct {
	ID         string `json:"id"`
	PlanID     string `json:"plan_id,omitempty"`
	Status     string `json:"status,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	CreateTime string `json:"create_time,omitempty"`
	Links      []Link `json:"links,omitempty"`
}

// Link HATEOAS-ссылка из ответа PayPal. Подписка содержит ссылку
// approve, по которой покупатель подтверждает оплату.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type billingCycle struct {
	Frequency     frequency     `json:"frequency"`
	TenureType    string        `json:"tenure_type"`
	Sequence      int           `json:"sequence"`
	TotalCycles   int           `json:"total_cycles"`
	PricingScheme pricingScheme `json:"pricing_scheme"`
}

type frequency struct {
	IntervalUnit  string `json:"interval_unit"`
	IntervalCount int    `json:"interval_count"`
}

type pricingScheme struct {
	FixedPrice money `json:"fixed_price"`
}

type money struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

type paymentPreferences struct {
	AutoBillOutstanding     bool   `json:"auto_bill_outstanding"`
	SetupFee                money  `json:"setup_fee"`
	SetupFeeFailureAction   string `json:"setup_fee_failure_action"`
	PaymentFailureThreshold int    `json:"payment_failure_threshold"`
}

type taxes struct {
	Percentage string `json:"percentage"`
	Inclusive  bool   `json:"inclusive"`
}

type planRequest struct {
	ProductID          string             `json:"product_id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Status             string             `json:"status"`
	BillingCycles      []billingCycle     `json:"billing_cycles"`
	PaymentPreferences paymentPreferences `json:"payment_preferences"`
	Taxes              taxes              `json:"taxes"`
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

type subscriptionRequest struct {
	PlanID             string             `json:"plan_id"`
	StartTime          string             `json:"start_time"`
	Subscriber         Subscriber         `json:"subscriber"`
	ApplicationContext applicationContext `json:"application_context"`
}

type applicationContext struct {
	BrandName          string        `json:"brand_name"`
	Locale             string        `json:"locale"`
	ShippingPreference string        `json:"shipping_preference"`
	UserAction         string        `json:"user_action"`
	PaymentMethod      paymentMethod `json:"payment_method"`
	ReturnURL          string        `json:"return_url"`
	CancelURL          string        `json:"cancel_url"`
}

type paymentMethod struct {
	PayerSelected  string `json:"payer_selected"`
	PayeePreferred string `json:"payee_preferred"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}
