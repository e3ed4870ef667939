// Package payment wraps the external card processor. The core treats it as an
// opaque boundary: create an intent, re-fetch it, verify webhook signatures.
package payment

import "context"

// Intent statuses the core cares about.
const (
	IntentStatusSucceeded = "succeeded"
)

// Webhook event types the core reconciles on.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// Intent is the processor-side handle for a card payment.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Event is a verified webhook notification.
type Event struct {
	Type     string
	IntentID string
}

// Gateway is the boundary to the card processor.
type Gateway interface {
	// CreateIntent registers a payment of the given amount with the
	// processor and returns the handle the client confirms against.
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error)

	// RetrieveIntent re-fetches the intent so the server can reconcile
	// against the processor's view rather than trusting the client.
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)

	// VerifyEvent checks the webhook signature and decodes the event.
	VerifyEvent(payload []byte, signature string) (*Event, error)
}
