package repository

import (
	"context"
	"time"

	"studentcab/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment. Payments are 1:1 with rides, so this
	// returns ErrConflict if the ride already has one.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByRideID retrieves the payment for a ride.
	GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error)

	// GetByIntentID retrieves the payment holding the given processor handle.
	GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)

	// SetIntentID attaches the processor handle to a pending card payment.
	SetIntentID(ctx context.Context, id, intentID string) error

	// SettleIfPending marks the payment completed iff it is still pending.
	// Returns false when another settlement path already won, which callers
	// must treat as success without crediting again.
	SettleIfPending(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkFailed records a failed settlement.
	MarkFailed(ctx context.Context, id string) error
}
