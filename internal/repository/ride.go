package repository

import (
	"context"
	"time"

	"studentcab/internal/domain"
)

// RideRepository defines the persistence operations for rides.
//
// Lifecycle transitions are conditional single-statement updates: each method
// names the state it expects, and returns ErrConflict when no row matched,
// which means the guard failed or a concurrent writer won. Callers should
// re-read and report ErrConflict rather than retry blindly.
type RideRepository interface {
	// Create persists a new ride in pending state.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetActiveByPassengerID returns the passenger's non-terminal ride, or
	// nil when there is none.
	GetActiveByPassengerID(ctx context.Context, passengerID string) (*domain.Ride, error)

	// GetActiveByDriverID returns the driver's non-terminal ride, or nil.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Ride, error)

	// ListByPassengerID returns the passenger's rides, newest first.
	ListByPassengerID(ctx context.Context, passengerID string) ([]*domain.Ride, error)

	// ListByDriverID returns the driver's rides, newest first.
	ListByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// ListPendingByIDs returns the subset of the given rides still pending.
	ListPendingByIDs(ctx context.Context, ids []string) ([]*domain.Ride, error)

	// Assign sets the driver on a pending ride: pending → accepted.
	Assign(ctx context.Context, rideID, driverID string, at time.Time) error

	// Unassign clears the assigned driver: accepted → pending. Only the
	// currently assigned driver may release the ride.
	Unassign(ctx context.Context, rideID, driverID string) error

	// Start records a successful pickup: accepted → in-progress.
	Start(ctx context.Context, rideID, driverID string, at time.Time) error

	// FailPickup records a failed pickup: accepted → cancelled, driver cleared.
	FailPickup(ctx context.Context, rideID, driverID string, at time.Time) error

	// Complete finishes the trip: in-progress → completed, stamping the
	// completion time and the initial payment status.
	Complete(ctx context.Context, rideID, driverID string, at time.Time, paymentStatus domain.PaymentStatus) error

	// Cancel terminates a pending or accepted ride at the passenger's request.
	Cancel(ctx context.Context, rideID, passengerID, reason string, at time.Time) error

	// UpdatePaymentStatus records the settlement outcome on the ride.
	UpdatePaymentStatus(ctx context.Context, rideID string, status domain.PaymentStatus) error
}
