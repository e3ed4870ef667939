package redis

import (
	"context"
	"time"
)

// GeoStoreInterface defines the geospatial index operations used by matching.
type GeoStoreInterface interface {
	UpdateDriverLocation(ctx context.Context, driverID string, lat, lng float64) error
	RemoveDriverLocation(ctx context.Context, driverID string) error
	FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]Nearby, error)
	AddPendingRide(ctx context.Context, rideID string, lat, lng float64) error
	RemovePendingRide(ctx context.Context, rideID string) error
	FindNearbyPendingRides(ctx context.Context, lat, lng, radiusKm float64) ([]Nearby, error)
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ GeoStoreInterface  = (*GeoStore)(nil)
	_ LockStoreInterface = (*LockStore)(nil)
)
