package models

// PaymentStatus is the backend payment state of an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Order is a purchase record as stored by the backend. ValidUntil is kept
// as the raw ISO-8601 string so that malformed values can be judged by the
// entitlement checker instead of failing the whole fetch.
type Order struct {
	ProductID     string        `json:"productId"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	ValidUntil    string        `json:"validUntil"`
}
