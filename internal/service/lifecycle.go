package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"studentcab/internal/domain"
	"studentcab/internal/redis"
	"studentcab/internal/repository"
	"studentcab/internal/repository/postgres"
)

const completeLockTTL = 30 * time.Second

// LifecycleService handles the driver side of the ride lifecycle: accept,
// reject, pickup outcome and completion.
//
// Transitions ride on conditional updates in the repository, so two drivers
// racing for the same ride get exactly one winner; the loser receives a
// "no longer available" rejection, never a silent overwrite.
type LifecycleService struct {
	db           *sql.DB
	rideRepo     repository.RideRepository
	driverRepo   repository.DriverRepository
	paymentRepo  repository.PaymentRepository
	geoStore     redis.GeoStoreInterface
	lockStore    redis.LockStoreInterface
	notification *NotificationService
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(
	db *sql.DB,
	rideRepo repository.RideRepository,
	driverRepo repository.DriverRepository,
	paymentRepo repository.PaymentRepository,
	geoStore redis.GeoStoreInterface,
	lockStore redis.LockStoreInterface,
	notification *NotificationService,
) *LifecycleService {
	return &LifecycleService{
		db:           db,
		rideRepo:     rideRepo,
		driverRepo:   driverRepo,
		paymentRepo:  paymentRepo,
		geoStore:     geoStore,
		lockStore:    lockStore,
		notification: notification,
	}
}

// AcceptRide assigns the driver to a pending ride. At most one driver wins;
// concurrent accepts are serialized by the conditional update.
func (s *LifecycleService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidAccountID
	}

	if _, err := s.driverRepo.GetByAccountID(ctx, driverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleRequired
		}
		return nil, err
	}

	// One active ride per driver.
	active, err := s.rideRepo.GetActiveByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrDriverBusy
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusPending {
		return nil, ErrRideNotPending
	}

	if err := s.rideRepo.Assign(ctx, rideID, driverID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Another driver won the race.
			return nil, ErrRideNotPending
		}
		return nil, err
	}

	_ = s.geoStore.RemovePendingRide(ctx, rideID)

	updated, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	s.notification.NotifyRideAccepted(updated)

	return updated, nil
}

// RejectRide releases an accepted ride back to the matching pool. Only the
// currently assigned driver may reject.
func (s *LifecycleService) RejectRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidAccountID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrNotAssignedDriver
	}
	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideNotAccepted
	}

	if err := s.rideRepo.Unassign(ctx, rideID, driverID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	updated, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	// Back into the discovery pool.
	_ = s.geoStore.AddPendingRide(ctx, updated.ID, updated.Pickup.Lat, updated.Pickup.Lng)
	s.notification.NotifyRideReleased(updated)

	return updated, nil
}

// UpdatePickup records the pickup outcome for an accepted ride. A successful
// pickup starts the trip; a failed one cancels the ride and clears the driver.
func (s *LifecycleService) UpdatePickup(ctx context.Context, rideID, driverID string, outcome domain.PickupStatus) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidAccountID
	}
	if outcome != domain.PickupStatusSuccessful && outcome != domain.PickupStatusFailed {
		return nil, ErrInvalidPickupOutcome
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrNotAssignedDriver
	}
	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideNotAccepted
	}

	now := time.Now()
	if outcome == domain.PickupStatusSuccessful {
		err = s.rideRepo.Start(ctx, rideID, driverID, now)
	} else {
		err = s.rideRepo.FailPickup(ctx, rideID, driverID, now)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	updated, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	s.notification.NotifyRideStatus(updated)

	return updated, nil
}

// CompleteRideResult is the outcome of completing a ride.
type CompleteRideResult struct {
	Ride    *domain.Ride
	Payment *domain.Payment
}

// CompleteRide finishes an in-progress ride and creates its payment record.
// Cash payments settle immediately; card payments stay pending until the
// processor confirms, and the driver wallet is only credited then.
//
// Idempotent: completing an already-completed ride returns the existing
// payment without creating or crediting anything twice.
func (s *LifecycleService) CompleteRide(ctx context.Context, rideID, driverID string) (*CompleteRideResult, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidAccountID
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRideLock(ctx, rideID, completeLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrConcurrentUpdate
		}
		defer func() { _ = s.lockStore.ReleaseRideLock(ctx, rideID) }()
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrNotAssignedDriver
	}

	// Replay: the ride was already completed by this driver.
	if ride.Status == domain.RideStatusCompleted {
		existing, err := s.paymentRepo.GetByRideID(ctx, rideID)
		if err != nil {
			return nil, err
		}
		return &CompleteRideResult{Ride: ride, Payment: existing}, nil
	}

	if ride.Status != domain.RideStatusInProgress {
		return nil, ErrRideNotInProgress
	}

	initialStatus := domain.PaymentStatusPending
	if ride.PaymentMethod == domain.PaymentMethodCash {
		initialStatus = domain.PaymentStatusCompleted
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:        uuid.New().String(),
		RideID:    rideID,
		PayerID:   ride.PassengerID,
		PayeeID:   driverID,
		Amount:    ride.Fare,
		Method:    ride.PaymentMethod,
		Status:    initialStatus,
		CreatedAt: now,
	}
	if initialStatus == domain.PaymentStatusCompleted {
		payment.SettledAt = now
	}

	rideRepo := s.rideRepo
	paymentRepo := s.paymentRepo
	var tx *sql.Tx
	if s.db != nil {
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
			}
		}()
		rideRepo = postgres.NewRideRepositoryWithTx(tx)
		paymentRepo = postgres.NewPaymentRepositoryWithTx(tx)
	}

	if err = rideRepo.Complete(ctx, rideID, driverID, now, initialStatus); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			err = ErrConcurrentUpdate
		}
		return nil, err
	}

	if err = paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if tx != nil {
		if err = tx.Commit(); err != nil {
			return nil, err
		}
	}

	completed, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	s.notification.NotifyRideStatus(completed)
	if payment.Status == domain.PaymentStatusCompleted {
		s.notification.NotifyPaymentSettled(payment)
	}

	return &CompleteRideResult{Ride: completed, Payment: payment}, nil
}
