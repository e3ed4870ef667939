package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// ReceiptService assembles fare receipts for completed rides.
type ReceiptService struct {
	rideRepo    repository.RideRepository
	paymentRepo repository.PaymentRepository
	pricing     Pricing
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(rideRepo repository.RideRepository, paymentRepo repository.PaymentRepository, pricing Pricing) *ReceiptService {
	return &ReceiptService{
		rideRepo:    rideRepo,
		paymentRepo: paymentRepo,
		pricing:     pricing,
	}
}

// Receipt builds the fare breakdown for a completed ride. Only the ride's
// passenger or driver may request it.
func (s *ReceiptService) Receipt(ctx context.Context, rideID, accountID string) (*domain.Receipt, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.PassengerID != accountID && ride.DriverID != accountID {
		return nil, ErrNotRidePassenger
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	paymentStatus := domain.PaymentStatusPending
	p, err := s.paymentRepo.GetByRideID(ctx, rideID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if p != nil {
		paymentStatus = p.Status
	}

	var duration time.Duration
	if !ride.StartedAt.IsZero() && !ride.CompletedAt.IsZero() {
		duration = ride.CompletedAt.Sub(ride.StartedAt)
	}

	return &domain.Receipt{
		ID:            uuid.New().String(),
		RideID:        ride.ID,
		PassengerID:   ride.PassengerID,
		DriverID:      ride.DriverID,
		Pickup:        ride.Pickup,
		Dropoff:       ride.Dropoff,
		DistanceKm:    ride.DistanceKm,
		BaseFare:      s.pricing.BaseFare,
		DistanceFare:  round2(ride.Fare - s.pricing.BaseFare),
		TotalFare:     ride.Fare,
		PaymentMethod: ride.PaymentMethod,
		PaymentStatus: paymentStatus,
		Duration:      duration,
		StartedAt:     ride.StartedAt,
		CompletedAt:   ride.CompletedAt,
		GeneratedAt:   time.Now(),
	}, nil
}
