package repository

import (
	"context"

	"studentcab/internal/domain"
)

// MessageRepository defines the persistence operations for in-ride messages.
type MessageRepository interface {
	// Create persists a new message.
	Create(ctx context.Context, message *domain.Message) error

	// GetByID retrieves a message by ID.
	GetByID(ctx context.Context, id string) (*domain.Message, error)

	// ListByRideID returns the ride's messages oldest first.
	ListByRideID(ctx context.Context, rideID string) ([]*domain.Message, error)

	// MarkRead marks a message read iff readerID is its receiver. Returns
	// ErrNotFound when no such message exists for that receiver.
	MarkRead(ctx context.Context, id, readerID string) error
}
