package domain

import "time"

// PaymentStatus represents the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment represents the payment for a completed ride. Exactly one payment
// exists per ride. Cash payments settle at completion time; card payments
// stay pending until the processor confirms the intent.
type Payment struct {
	ID        string
	RideID    string
	PayerID   string
	PayeeID   string
	Amount    float64
	Method    PaymentMethod
	Status    PaymentStatus
	IntentID  string // processor handle, empty for cash
	CreatedAt time.Time
	SettledAt time.Time
}
