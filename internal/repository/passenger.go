package repository

import (
	"context"

	"studentcab/internal/domain"
)

// PassengerRepository defines the persistence operations for passenger profiles.
type PassengerRepository interface {
	// Create persists a new passenger profile.
	Create(ctx context.Context, profile *domain.PassengerProfile) error

	// GetByAccountID retrieves a passenger profile.
	GetByAccountID(ctx context.Context, accountID string) (*domain.PassengerProfile, error)

	// Update replaces the stored card and emergency contacts.
	Update(ctx context.Context, profile *domain.PassengerProfile) error
}
