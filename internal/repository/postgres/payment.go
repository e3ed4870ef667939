package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, ride_id, payer_id, payee_id, amount, method, status, intent_id, created_at, settled_at`

// Create persists a new payment. The unique constraint on ride_id keeps
// payments 1:1 with rides even when completion runs twice.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		p.ID,
		p.RideID,
		p.PayerID,
		p.PayeeID,
		p.Amount,
		p.Method,
		p.Status,
		nullString(p.IntentID),
		p.CreatedAt,
		nullTime(p.SettledAt),
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

// GetByRideID retrieves the payment for a ride.
func (r *PaymentRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE ride_id = $1`, rideID)
}

// GetByIntentID retrieves the payment holding the given processor handle.
func (r *PaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE intent_id = $1`, intentID)
}

func (r *PaymentRepository) getOne(ctx context.Context, query string, arg any) (*domain.Payment, error) {
	var p domain.Payment
	var intentID sql.NullString
	var settledAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&p.ID,
		&p.RideID,
		&p.PayerID,
		&p.PayeeID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&intentID,
		&p.CreatedAt,
		&settledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	p.IntentID = intentID.String
	p.SettledAt = settledAt.Time
	return &p, nil
}

// SetIntentID attaches the processor handle to a pending card payment.
func (r *PaymentRepository) SetIntentID(ctx context.Context, id, intentID string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE payments SET intent_id = $1 WHERE id = $2 AND status = 'pending'`, intentID, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SettleIfPending marks the payment completed iff it is still pending.
func (r *PaymentRepository) SettleIfPending(ctx context.Context, id string, at time.Time) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE payments SET status = 'completed', settled_at = $1 WHERE id = $2 AND status = 'pending'`, at, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkFailed records a failed settlement.
func (r *PaymentRepository) MarkFailed(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE payments SET status = 'failed' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
