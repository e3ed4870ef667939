package postgres

import (
	"context"
	"database/sql"
	"errors"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create persists a new driver profile.
func (r *DriverRepository) Create(ctx context.Context, p *domain.DriverProfile) error {
	query := `
		INSERT INTO driver_profiles (account_id, vehicle_model, vehicle_color, plate_number, available, last_lat, last_lng, wallet_balance, total_earnings, completed_rides)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		p.AccountID,
		p.VehicleModel,
		p.VehicleColor,
		p.PlateNumber,
		p.Available,
		p.LastLat,
		p.LastLng,
		p.WalletBalance,
		p.TotalEarnings,
		p.CompletedRides,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByAccountID retrieves a driver profile.
func (r *DriverRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.DriverProfile, error) {
	query := `
		SELECT account_id, vehicle_model, vehicle_color, plate_number, available, last_lat, last_lng, wallet_balance, total_earnings, completed_rides
		FROM driver_profiles WHERE account_id = $1
	`

	var p domain.DriverProfile
	err := r.q.QueryRowContext(ctx, query, accountID).Scan(
		&p.AccountID,
		&p.VehicleModel,
		&p.VehicleColor,
		&p.PlateNumber,
		&p.Available,
		&p.LastLat,
		&p.LastLng,
		&p.WalletBalance,
		&p.TotalEarnings,
		&p.CompletedRides,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SetAvailability toggles whether the driver receives ride requests.
func (r *DriverRepository) SetAvailability(ctx context.Context, accountID string, available bool) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE driver_profiles SET available = $1 WHERE account_id = $2`, available, accountID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateLocation stores the driver's last reported position.
func (r *DriverRepository) UpdateLocation(ctx context.Context, accountID string, lat, lng float64) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE driver_profiles SET last_lat = $1, last_lng = $2 WHERE account_id = $3`, lat, lng, accountID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CreditEarnings adds a settled fare to the wallet and counters.
func (r *DriverRepository) CreditEarnings(ctx context.Context, accountID string, amount float64) error {
	query := `
		UPDATE driver_profiles
		SET wallet_balance = wallet_balance + $1,
		    total_earnings = total_earnings + $1,
		    completed_rides = completed_rides + 1
		WHERE account_id = $2
	`

	result, err := r.q.ExecContext(ctx, query, amount, accountID)
	if err != nil {
		return err
	}
	return requireRow(result)
}
