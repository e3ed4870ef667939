package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
//
// Every lifecycle transition is a single conditional UPDATE whose WHERE clause
// names the expected current state. Zero rows affected surfaces as
// repository.ErrConflict, which is how the at-most-one-winner guarantee for
// concurrent accepts is enforced.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, passenger_id, driver_id, pickup_address, pickup_lat, pickup_lng, dropoff_address, dropoff_lat, dropoff_lng, distance_km, fare, status, pickup_status, payment_method, payment_status, requested_at, accepted_at, started_at, completed_at, cancelled_at, cancel_reason`

// Create persists a new ride in pending state.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.PassengerID,
		nullString(ride.DriverID),
		ride.Pickup.Address,
		ride.Pickup.Lat,
		ride.Pickup.Lng,
		ride.Dropoff.Address,
		ride.Dropoff.Lat,
		ride.Dropoff.Lng,
		ride.DistanceKm,
		ride.Fare,
		ride.Status,
		ride.PickupStatus,
		ride.PaymentMethod,
		ride.PaymentStatus,
		ride.RequestedAt,
		nullTime(ride.AcceptedAt),
		nullTime(ride.StartedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
		nullString(ride.CancelReason),
	)
	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, id)
	ride, err := scanRide(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetActiveByPassengerID returns the passenger's non-terminal ride, or nil.
func (r *RideRepository) GetActiveByPassengerID(ctx context.Context, passengerID string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE passenger_id = $1 AND status NOT IN ('completed', 'cancelled') LIMIT 1`
	return r.getActive(ctx, query, passengerID)
}

// GetActiveByDriverID returns the driver's non-terminal ride, or nil.
func (r *RideRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 AND status NOT IN ('completed', 'cancelled') LIMIT 1`
	return r.getActive(ctx, query, driverID)
}

func (r *RideRepository) getActive(ctx context.Context, query, id string) (*domain.Ride, error) {
	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ride, nil
}

// ListByPassengerID returns the passenger's rides, newest first.
func (r *RideRepository) ListByPassengerID(ctx context.Context, passengerID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE passenger_id = $1 ORDER BY requested_at DESC`
	return r.list(ctx, query, passengerID)
}

// ListByDriverID returns the driver's rides, newest first.
func (r *RideRepository) ListByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 ORDER BY requested_at DESC`
	return r.list(ctx, query, driverID)
}

// ListPendingByIDs returns the subset of the given rides still pending.
func (r *RideRepository) ListPendingByIDs(ctx context.Context, ids []string) ([]*domain.Ride, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = ANY($1) AND status = 'pending'`
	return r.list(ctx, query, pq.Array(ids))
}

func (r *RideRepository) list(ctx context.Context, query string, arg any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// Assign sets the driver on a pending ride: pending → accepted.
func (r *RideRepository) Assign(ctx context.Context, rideID, driverID string, at time.Time) error {
	query := `
		UPDATE rides
		SET driver_id = $1, status = 'accepted', accepted_at = $2
		WHERE id = $3 AND status = 'pending' AND driver_id IS NULL
	`
	return r.conditional(ctx, query, driverID, at, rideID)
}

// Unassign clears the assigned driver: accepted → pending.
func (r *RideRepository) Unassign(ctx context.Context, rideID, driverID string) error {
	query := `
		UPDATE rides
		SET driver_id = NULL, status = 'pending', accepted_at = NULL
		WHERE id = $1 AND status = 'accepted' AND driver_id = $2
	`
	return r.conditional(ctx, query, rideID, driverID)
}

// Start records a successful pickup: accepted → in-progress.
func (r *RideRepository) Start(ctx context.Context, rideID, driverID string, at time.Time) error {
	query := `
		UPDATE rides
		SET status = 'in-progress', pickup_status = 'successful', started_at = $1
		WHERE id = $2 AND status = 'accepted' AND driver_id = $3
	`
	return r.conditional(ctx, query, at, rideID, driverID)
}

// FailPickup records a failed pickup: accepted → cancelled, driver cleared.
func (r *RideRepository) FailPickup(ctx context.Context, rideID, driverID string, at time.Time) error {
	query := `
		UPDATE rides
		SET status = 'cancelled', pickup_status = 'failed', driver_id = NULL, cancelled_at = $1, cancel_reason = 'pickup failed'
		WHERE id = $2 AND status = 'accepted' AND driver_id = $3
	`
	return r.conditional(ctx, query, at, rideID, driverID)
}

// Complete finishes the trip: in-progress → completed.
func (r *RideRepository) Complete(ctx context.Context, rideID, driverID string, at time.Time, paymentStatus domain.PaymentStatus) error {
	query := `
		UPDATE rides
		SET status = 'completed', completed_at = $1, payment_status = $2
		WHERE id = $3 AND status = 'in-progress' AND driver_id = $4
	`
	return r.conditional(ctx, query, at, paymentStatus, rideID, driverID)
}

// Cancel terminates a pending or accepted ride at the passenger's request.
func (r *RideRepository) Cancel(ctx context.Context, rideID, passengerID, reason string, at time.Time) error {
	query := `
		UPDATE rides
		SET status = 'cancelled', cancelled_at = $1, cancel_reason = $2
		WHERE id = $3 AND passenger_id = $4 AND status IN ('pending', 'accepted')
	`
	return r.conditional(ctx, query, at, nullString(reason), rideID, passengerID)
}

// UpdatePaymentStatus records the settlement outcome on the ride.
func (r *RideRepository) UpdatePaymentStatus(ctx context.Context, rideID string, status domain.PaymentStatus) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE rides SET payment_status = $1 WHERE id = $2`, status, rideID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// conditional runs a guarded UPDATE and maps zero affected rows to ErrConflict.
func (r *RideRepository) conditional(ctx context.Context, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrConflict
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID, cancelReason sql.NullString
	var acceptedAt, startedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.PassengerID,
		&driverID,
		&ride.Pickup.Address,
		&ride.Pickup.Lat,
		&ride.Pickup.Lng,
		&ride.Dropoff.Address,
		&ride.Dropoff.Lat,
		&ride.Dropoff.Lng,
		&ride.DistanceKm,
		&ride.Fare,
		&ride.Status,
		&ride.PickupStatus,
		&ride.PaymentMethod,
		&ride.PaymentStatus,
		&ride.RequestedAt,
		&acceptedAt,
		&startedAt,
		&completedAt,
		&cancelledAt,
		&cancelReason,
	)
	if err != nil {
		return nil, err
	}

	ride.DriverID = driverID.String
	ride.CancelReason = cancelReason.String
	ride.AcceptedAt = acceptedAt.Time
	ride.StartedAt = startedAt.Time
	ride.CompletedAt = completedAt.Time
	ride.CancelledAt = cancelledAt.Time

	return &ride, nil
}
