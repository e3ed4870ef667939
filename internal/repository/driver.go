package repository

import (
	"context"

	"studentcab/internal/domain"
)

// DriverRepository defines the persistence operations for driver profiles.
type DriverRepository interface {
	// Create persists a new driver profile. Returns ErrConflict if the plate
	// number is already registered.
	Create(ctx context.Context, profile *domain.DriverProfile) error

	// GetByAccountID retrieves a driver profile.
	GetByAccountID(ctx context.Context, accountID string) (*domain.DriverProfile, error)

	// SetAvailability toggles whether the driver receives ride requests.
	SetAvailability(ctx context.Context, accountID string, available bool) error

	// UpdateLocation stores the driver's last reported position.
	UpdateLocation(ctx context.Context, accountID string, lat, lng float64) error

	// CreditEarnings adds a settled fare to the wallet and total earnings and
	// increments the completed-ride counter.
	CreditEarnings(ctx context.Context, accountID string, amount float64) error
}
