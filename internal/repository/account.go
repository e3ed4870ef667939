package repository

import (
	"context"

	"studentcab/internal/domain"
)

// AccountRepository defines the persistence operations for accounts.
type AccountRepository interface {
	// Create persists a new account. Returns ErrConflict if the email or
	// phone is already registered.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by email.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// UpdateProfile updates name, phone and email.
	UpdateProfile(ctx context.Context, account *domain.Account) error

	// AddRole grants an additional role to an existing account.
	AddRole(ctx context.Context, id string, role domain.Role) error

	// UpdateCredential replaces the stored credential hash.
	UpdateCredential(ctx context.Context, id, credentialHash string) error

	// UpdateRating replaces the aggregate rating and count. Only the rating
	// aggregator calls this.
	UpdateRating(ctx context.Context, id string, rating float64, count int) error
}
