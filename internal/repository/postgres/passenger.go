package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// PassengerRepository is a PostgreSQL implementation of repository.PassengerRepository.
type PassengerRepository struct {
	q Querier
}

// NewPassengerRepository creates a new PostgreSQL passenger repository.
func NewPassengerRepository(db *sql.DB) *PassengerRepository {
	return &PassengerRepository{q: db}
}

// Create persists a new passenger profile.
func (r *PassengerRepository) Create(ctx context.Context, p *domain.PassengerProfile) error {
	query := `
		INSERT INTO passenger_profiles (account_id, stored_card, emergency_contacts)
		VALUES ($1, $2, $3)
	`

	_, err := r.q.ExecContext(ctx, query,
		p.AccountID,
		nullString(p.StoredCard),
		pq.Array(p.EmergencyContacts),
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByAccountID retrieves a passenger profile.
func (r *PassengerRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.PassengerProfile, error) {
	query := `
		SELECT account_id, stored_card, emergency_contacts
		FROM passenger_profiles WHERE account_id = $1
	`

	var p domain.PassengerProfile
	var storedCard sql.NullString
	err := r.q.QueryRowContext(ctx, query, accountID).Scan(
		&p.AccountID,
		&storedCard,
		pq.Array(&p.EmergencyContacts),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	p.StoredCard = storedCard.String
	return &p, nil
}

// Update replaces the stored card and emergency contacts.
func (r *PassengerRepository) Update(ctx context.Context, p *domain.PassengerProfile) error {
	query := `
		UPDATE passenger_profiles
		SET stored_card = $1, emergency_contacts = $2
		WHERE account_id = $3
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(p.StoredCard),
		pq.Array(p.EmergencyContacts),
		p.AccountID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}
