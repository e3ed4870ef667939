package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	driverLocationKey = "drivers:locations"
	pendingRideKey    = "rides:pending"
)

// Nearby is one member of a geo index with its position.
type Nearby struct {
	ID  string
	Lat float64
	Lng float64
}

// GeoStore maintains the two geospatial indexes used for matching: available
// driver positions and the pickup points of pending rides. Postgres remains
// the source of truth; results are hydrated and re-filtered there.
type GeoStore struct {
	client *redis.Client
}

// NewGeoStore creates a new GeoStore.
func NewGeoStore(client *redis.Client) *GeoStore {
	return &GeoStore{client: client}
}

// UpdateDriverLocation stores a driver's position using GEOADD.
func (s *GeoStore) UpdateDriverLocation(ctx context.Context, driverID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, driverLocationKey, &redis.GeoLocation{
		Name:      driverID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// RemoveDriverLocation removes a driver from the geo index.
func (s *GeoStore) RemoveDriverLocation(ctx context.Context, driverID string) error {
	return s.client.ZRem(ctx, driverLocationKey, driverID).Err()
}

// FindNearbyDrivers returns available drivers within radiusKm, nearest first.
func (s *GeoStore) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]Nearby, error) {
	return s.search(ctx, driverLocationKey, lat, lng, radiusKm)
}

// AddPendingRide indexes a pending ride by its pickup point.
func (s *GeoStore) AddPendingRide(ctx context.Context, rideID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, pendingRideKey, &redis.GeoLocation{
		Name:      rideID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// RemovePendingRide drops a ride from the pending index.
func (s *GeoStore) RemovePendingRide(ctx context.Context, rideID string) error {
	return s.client.ZRem(ctx, pendingRideKey, rideID).Err()
}

// FindNearbyPendingRides returns pending rides with pickup within radiusKm,
// nearest first.
func (s *GeoStore) FindNearbyPendingRides(ctx context.Context, lat, lng, radiusKm float64) ([]Nearby, error) {
	return s.search(ctx, pendingRideKey, lat, lng, radiusKm)
}

func (s *GeoStore) search(ctx context.Context, key string, lat, lng, radiusKm float64) ([]Nearby, error) {
	results, err := s.client.GeoRadius(ctx, key, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	nearby := make([]Nearby, 0, len(results))
	for _, r := range results {
		nearby = append(nearby, Nearby{
			ID:  r.Name,
			Lat: r.Latitude,
			Lng: r.Longitude,
		})
	}

	return nearby, nil
}
