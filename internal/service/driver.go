package service

import (
	"context"
	"errors"

	"studentcab/internal/domain"
	"studentcab/internal/redis"
	"studentcab/internal/repository"
)

// DriverService manages driver availability, live location and wallet reads.
type DriverService struct {
	driverRepo   repository.DriverRepository
	rideRepo     repository.RideRepository
	geoStore     redis.GeoStoreInterface
	notification *NotificationService
}

// NewDriverService creates a new DriverService.
func NewDriverService(driverRepo repository.DriverRepository, rideRepo repository.RideRepository, geoStore redis.GeoStoreInterface, notification *NotificationService) *DriverService {
	return &DriverService{
		driverRepo:   driverRepo,
		rideRepo:     rideRepo,
		geoStore:     geoStore,
		notification: notification,
	}
}

// SetAvailability toggles whether the driver appears in proximity searches.
// Going offline removes the driver from the geo index immediately.
func (s *DriverService) SetAvailability(ctx context.Context, driverID string, available bool) (*domain.DriverProfile, error) {
	if driverID == "" {
		return nil, ErrInvalidAccountID
	}

	profile, err := s.driverRepo.GetByAccountID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleRequired
		}
		return nil, err
	}

	if err := s.driverRepo.SetAvailability(ctx, driverID, available); err != nil {
		return nil, err
	}

	if available {
		if profile.LastLat != 0 || profile.LastLng != 0 {
			if err := s.geoStore.UpdateDriverLocation(ctx, driverID, profile.LastLat, profile.LastLng); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.geoStore.RemoveDriverLocation(ctx, driverID); err != nil {
			return nil, err
		}
	}

	profile.Available = available
	return profile, nil
}

// UpdateLocation records the driver's position. Available drivers are moved
// in the geo index, and the passenger of an active ride gets a live update.
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidAccountID
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidPickupLocation
	}

	profile, err := s.driverRepo.GetByAccountID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleRequired
		}
		return err
	}

	if err := s.driverRepo.UpdateLocation(ctx, driverID, lat, lng); err != nil {
		return err
	}

	if profile.Available {
		if err := s.geoStore.UpdateDriverLocation(ctx, driverID, lat, lng); err != nil {
			return err
		}
	}

	active, err := s.rideRepo.GetActiveByDriverID(ctx, driverID)
	if err != nil {
		return err
	}
	if active != nil {
		s.notification.NotifyDriverLocation(active.PassengerID, driverID, lat, lng)
	}

	return nil
}

// Wallet returns the driver's earnings profile.
func (s *DriverService) Wallet(ctx context.Context, driverID string) (*domain.DriverProfile, error) {
	if driverID == "" {
		return nil, ErrInvalidAccountID
	}
	profile, err := s.driverRepo.GetByAccountID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleRequired
		}
		return nil, err
	}
	return profile, nil
}
