package postgres

import (
	"context"
	"database/sql"
	"errors"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// AccountRepository is a PostgreSQL implementation of repository.AccountRepository.
type AccountRepository struct {
	q Querier
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{q: db}
}

// NewAccountRepositoryWithTx creates an account repository using a transaction.
func NewAccountRepositoryWithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `id, name, phone, email, credential_hash, is_passenger, is_driver, rating, rating_count, created_at`

// Create persists a new account.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, phone, email, credential_hash, is_passenger, is_driver, rating, rating_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	rating := a.Rating
	if rating == 0 {
		rating = 5.0
	}

	_, err := r.q.ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.Phone,
		a.Email,
		a.CredentialHash,
		a.IsPassenger,
		a.IsDriver,
		rating,
		a.RatingCount,
		a.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetByEmail retrieves an account by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var a domain.Account
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&a.ID,
		&a.Name,
		&a.Phone,
		&a.Email,
		&a.CredentialHash,
		&a.IsPassenger,
		&a.IsDriver,
		&a.Rating,
		&a.RatingCount,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdateProfile updates name, phone and email.
func (r *AccountRepository) UpdateProfile(ctx context.Context, a *domain.Account) error {
	query := `UPDATE accounts SET name = $1, phone = $2, email = $3 WHERE id = $4`

	result, err := r.q.ExecContext(ctx, query, a.Name, a.Phone, a.Email, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return err
	}
	return requireRow(result)
}

// AddRole grants an additional role to an existing account.
func (r *AccountRepository) AddRole(ctx context.Context, id string, role domain.Role) error {
	var query string
	switch role {
	case domain.RolePassenger:
		query = `UPDATE accounts SET is_passenger = TRUE WHERE id = $1`
	case domain.RoleDriver:
		query = `UPDATE accounts SET is_driver = TRUE WHERE id = $1`
	default:
		return repository.ErrNotFound
	}

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateCredential replaces the stored credential hash.
func (r *AccountRepository) UpdateCredential(ctx context.Context, id, credentialHash string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET credential_hash = $1 WHERE id = $2`, credentialHash, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateRating replaces the aggregate rating and count.
func (r *AccountRepository) UpdateRating(ctx context.Context, id string, rating float64, count int) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET rating = $1, rating_count = $2 WHERE id = $3`, rating, count, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
