package service

import (
	"context"
	"errors"

	"studentcab/internal/domain"
	"studentcab/internal/redis"
	"studentcab/internal/repository"
)

// searchRadiusKm bounds both driver discovery and pending ride discovery.
const searchRadiusKm = 5.0

// MatchingService answers proximity queries over the geo index.
type MatchingService struct {
	geoStore   redis.GeoStoreInterface
	rideRepo   repository.RideRepository
	driverRepo repository.DriverRepository
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(geoStore redis.GeoStoreInterface, rideRepo repository.RideRepository, driverRepo repository.DriverRepository) *MatchingService {
	return &MatchingService{
		geoStore:   geoStore,
		rideRepo:   rideRepo,
		driverRepo: driverRepo,
	}
}

// AvailableRides lists pending rides whose pickup point lies within the
// search radius of the driver's last known position, nearest first. The
// driver must be marked available.
func (s *MatchingService) AvailableRides(ctx context.Context, driverID string) ([]*domain.Ride, error) {
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
	if !profile.Available {
		return nil, ErrDriverUnavailable
	}

	nearby, err := s.geoStore.FindNearbyPendingRides(ctx, profile.LastLat, profile.LastLng, searchRadiusKm)
	if err != nil {
		return nil, err
	}
	if len(nearby) == 0 {
		return []*domain.Ride{}, nil
	}

	ids := make([]string, 0, len(nearby))
	for _, n := range nearby {
		ids = append(ids, n.ID)
	}

	rides, err := s.rideRepo.ListPendingByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Preserve proximity ordering from the geo query. Entries that are no
	// longer pending have dropped out of the repository result.
	byID := make(map[string]*domain.Ride, len(rides))
	for _, r := range rides {
		byID[r.ID] = r
	}
	ordered := make([]*domain.Ride, 0, len(rides))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}

	return ordered, nil
}

// NearbyDrivers counts available drivers within the search radius of a point.
func (s *MatchingService) NearbyDrivers(ctx context.Context, lat, lng float64) (int, error) {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return 0, ErrInvalidPickupLocation
	}
	drivers, err := s.geoStore.FindNearbyDrivers(ctx, lat, lng, searchRadiusKm)
	if err != nil {
		return 0, err
	}
	return len(drivers), nil
}
