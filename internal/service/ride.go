package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"studentcab/internal/domain"
	"studentcab/internal/redis"
	"studentcab/internal/repository"
)

// RideService handles the passenger side of the ride lifecycle: quoting,
// booking, cancelling and history.
type RideService struct {
	rideRepo     repository.RideRepository
	geoStore     redis.GeoStoreInterface
	pricing      Pricing
	notification *NotificationService
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	geoStore redis.GeoStoreInterface,
	pricing Pricing,
	notification *NotificationService,
) *RideService {
	return &RideService{
		rideRepo:     rideRepo,
		geoStore:     geoStore,
		pricing:      pricing,
		notification: notification,
	}
}

// SearchRequest contains the parameters for a pre-booking fare search.
type SearchRequest struct {
	PickupLat  float64
	PickupLng  float64
	DropoffLat float64
	DropoffLng float64
}

// SearchResult is the fare quote plus an availability signal. The nearby
// driver count is informational only; the passenger never picks a driver.
type SearchResult struct {
	Quote
	NearbyDrivers int
}

// SearchRide quotes a trip and reports how many available drivers are near
// the pickup point.
func (s *RideService) SearchRide(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if !isValidLatitude(req.PickupLat) || !isValidLongitude(req.PickupLng) {
		return nil, ErrInvalidPickupLocation
	}
	if !isValidLatitude(req.DropoffLat) || !isValidLongitude(req.DropoffLng) {
		return nil, ErrInvalidDropoffLocation
	}

	quote := s.pricing.Estimate(req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng)

	nearby, err := s.geoStore.FindNearbyDrivers(ctx, req.PickupLat, req.PickupLng, searchRadiusKm)
	if err != nil {
		// Availability signal is best-effort; the quote still stands.
		nearby = nil
	}

	return &SearchResult{
		Quote:         quote,
		NearbyDrivers: len(nearby),
	}, nil
}

// BookRideRequest contains the parameters for booking a ride.
type BookRideRequest struct {
	PassengerID    string
	PickupAddress  string
	PickupLat      float64
	PickupLng      float64
	DropoffAddress string
	DropoffLat     float64
	DropoffLng     float64
	PaymentMethod  domain.PaymentMethod
}

// BookRide creates a ride in pending state. A passenger may hold at most one
// active ride at a time.
func (s *RideService) BookRide(ctx context.Context, req BookRideRequest) (*domain.Ride, error) {
	if req.PassengerID == "" {
		return nil, ErrInvalidAccountID
	}
	if req.PickupAddress == "" || !isValidLatitude(req.PickupLat) || !isValidLongitude(req.PickupLng) {
		return nil, ErrInvalidPickupLocation
	}
	if req.DropoffAddress == "" || !isValidLatitude(req.DropoffLat) || !isValidLongitude(req.DropoffLng) {
		return nil, ErrInvalidDropoffLocation
	}
	if req.PaymentMethod != domain.PaymentMethodCash && req.PaymentMethod != domain.PaymentMethodCard {
		return nil, ErrInvalidPaymentMethod
	}

	active, err := s.rideRepo.GetActiveByPassengerID(ctx, req.PassengerID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveRideExists
	}

	quote := s.pricing.Estimate(req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng)

	ride := &domain.Ride{
		ID:          uuid.New().String(),
		PassengerID: req.PassengerID,
		Pickup: domain.Location{
			Address: req.PickupAddress,
			Lat:     req.PickupLat,
			Lng:     req.PickupLng,
		},
		Dropoff: domain.Location{
			Address: req.DropoffAddress,
			Lat:     req.DropoffLat,
			Lng:     req.DropoffLng,
		},
		DistanceKm:    quote.DistanceKm,
		Fare:          quote.Fare,
		Status:        domain.RideStatusPending,
		PickupStatus:  domain.PickupStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: domain.PaymentStatusPending,
		RequestedAt:   time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	// Index the pickup point so nearby drivers can discover the ride.
	// Matching re-checks status in Postgres before trusting the index.
	if err := s.geoStore.AddPendingRide(ctx, ride.ID, ride.Pickup.Lat, ride.Pickup.Lng); err != nil {
		return nil, err
	}

	s.notification.NotifyRideRequested(ride)

	return ride, nil
}

// CancelRideRequest contains the parameters for cancelling a ride.
type CancelRideRequest struct {
	RideID      string
	PassengerID string
	Reason      string
}

// CancelRide cancels a pending or accepted ride at the passenger's request.
func (s *RideService) CancelRide(ctx context.Context, req CancelRideRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if ride.PassengerID != req.PassengerID {
		return nil, ErrNotRidePassenger
	}
	if ride.Status.Terminal() {
		return nil, ErrRideNotCancellable
	}
	if ride.Status == domain.RideStatusInProgress {
		return nil, ErrRideNotCancellable
	}

	err = s.rideRepo.Cancel(ctx, req.RideID, req.PassengerID, req.Reason, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// The ride advanced between the read and the write.
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	_ = s.geoStore.RemovePendingRide(ctx, req.RideID)

	updated, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	s.notification.NotifyRideCancelled(updated, ride.DriverID)

	return updated, nil
}

// GetRide retrieves a ride visible to one of its parties.
func (s *RideService) GetRide(ctx context.Context, rideID, accountID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.PassengerID != accountID && ride.DriverID != accountID {
		return nil, ErrNotRidePassenger
	}

	return ride, nil
}

// PassengerHistory returns the passenger's rides, newest first.
func (s *RideService) PassengerHistory(ctx context.Context, passengerID string) ([]*domain.Ride, error) {
	if passengerID == "" {
		return nil, ErrInvalidAccountID
	}
	return s.rideRepo.ListByPassengerID(ctx, passengerID)
}

// DriverHistory returns the driver's rides, newest first.
func (s *RideService) DriverHistory(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidAccountID
	}
	return s.rideRepo.ListByDriverID(ctx, driverID)
}
