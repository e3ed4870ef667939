package tests

import (
	"context"
	"errors"
	"testing"

	"studentcab/internal/domain"
	"studentcab/internal/service"
)

func newMatchingFixture() (*MockGeoStore, *MockRideRepository, *MockDriverRepository, *service.MatchingService) {
	geo := NewMockGeoStore()
	rideRepo := NewMockRideRepository()
	driverRepo := NewMockDriverRepository()
	return geo, rideRepo, driverRepo, service.NewMatchingService(geo, rideRepo, driverRepo)
}

func TestAvailableRides_NearestFirstAndPendingOnly(t *testing.T) {
	t.Parallel()

	geo, rideRepo, driverRepo, svc := newMatchingFixture()

	driverRepo.AddProfile(&domain.DriverProfile{
		AccountID: "driver-1",
		Available: true,
		LastLat:   3.12,
		LastLng:   101.68,
	})

	// Three rides in the geo index; the mock returns them in insertion
	// order, standing in for nearest-first.
	for _, id := range []string{"ride-near", "ride-mid", "ride-far"} {
		rideRepo.AddRide(&domain.Ride{ID: id, PassengerID: "p-" + id, Status: domain.RideStatusPending})
		_ = geo.AddPendingRide(context.Background(), id, 3.12, 101.68)
	}

	// One of them was accepted since it was indexed; it must drop out.
	rideRepo.GetRide("ride-mid").Status = domain.RideStatusAccepted

	rides, err := svc.AvailableRides(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rides) != 2 {
		t.Fatalf("rides = %d, want 2", len(rides))
	}
	if rides[0].ID != "ride-near" || rides[1].ID != "ride-far" {
		t.Errorf("order = [%s, %s], want [ride-near, ride-far]", rides[0].ID, rides[1].ID)
	}
}

func TestAvailableRides_RequiresAvailability(t *testing.T) {
	t.Parallel()

	_, _, driverRepo, svc := newMatchingFixture()
	driverRepo.AddProfile(&domain.DriverProfile{AccountID: "driver-1", Available: false})

	_, err := svc.AvailableRides(context.Background(), "driver-1")
	if !errors.Is(err, service.ErrDriverUnavailable) {
		t.Errorf("err = %v, want ErrDriverUnavailable", err)
	}
}

func TestAvailableRides_RequiresDriverProfile(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newMatchingFixture()

	_, err := svc.AvailableRides(context.Background(), "nobody")
	if !errors.Is(err, service.ErrRoleRequired) {
		t.Errorf("err = %v, want ErrRoleRequired", err)
	}
}

func TestAvailableRides_EmptyPoolGivesEmptySlice(t *testing.T) {
	t.Parallel()

	_, _, driverRepo, svc := newMatchingFixture()
	driverRepo.AddProfile(&domain.DriverProfile{AccountID: "driver-1", Available: true})

	rides, err := svc.AvailableRides(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rides == nil || len(rides) != 0 {
		t.Errorf("rides = %v, want empty slice", rides)
	}
}

func TestNearbyDrivers_CountsIndexedDrivers(t *testing.T) {
	t.Parallel()

	geo, _, _, svc := newMatchingFixture()

	_ = geo.UpdateDriverLocation(context.Background(), "driver-1", 3.12, 101.68)
	_ = geo.UpdateDriverLocation(context.Background(), "driver-2", 3.13, 101.69)

	count, err := svc.NearbyDrivers(context.Background(), 3.12, 101.68)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestNearbyDrivers_ValidatesCoordinates(t *testing.T) {
	t.Parallel()

	_, _, _, svc := newMatchingFixture()

	_, err := svc.NearbyDrivers(context.Background(), 200, 101.68)
	if !errors.Is(err, service.ErrInvalidPickupLocation) {
		t.Errorf("err = %v, want ErrInvalidPickupLocation", err)
	}
}
