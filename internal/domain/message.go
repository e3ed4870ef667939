package domain

import "time"

// Message is an in-ride chat message between the passenger and the driver.
// Messages are scoped to a ride; the receiver is always the other party.
type Message struct {
	ID         string
	RideID     string
	SenderID   string
	ReceiverID string
	Body       string
	Read       bool
	CreatedAt  time.Time
}
