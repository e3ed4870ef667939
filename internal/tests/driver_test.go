package tests

import (
	"context"
	"errors"
	"testing"

	"studentcab/internal/domain"
	"studentcab/internal/service"
)

func newDriverFixture() (*MockDriverRepository, *MockRideRepository, *MockGeoStore, *RecordingPublisher, *service.DriverService) {
	driverRepo := NewMockDriverRepository()
	rideRepo := NewMockRideRepository()
	geo := NewMockGeoStore()
	pub := NewRecordingPublisher()
	svc := service.NewDriverService(driverRepo, rideRepo, geo, service.NewNotificationService(pub))
	return driverRepo, rideRepo, geo, pub, svc
}

func TestSetAvailability_OnlineEntersGeoIndex(t *testing.T) {
	t.Parallel()

	driverRepo, _, geo, _, svc := newDriverFixture()
	driverRepo.AddProfile(&domain.DriverProfile{
		AccountID: "driver-1",
		LastLat:   3.12,
		LastLng:   101.68,
	})

	profile, err := svc.SetAvailability(context.Background(), "driver-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !profile.Available {
		t.Error("profile not marked available")
	}
	if !geo.HasDriver("driver-1") {
		t.Error("available driver missing from geo index")
	}
}

func TestSetAvailability_OfflineLeavesGeoIndexImmediately(t *testing.T) {
	t.Parallel()

	driverRepo, _, geo, _, svc := newDriverFixture()
	driverRepo.AddProfile(&domain.DriverProfile{
		AccountID: "driver-1",
		Available: true,
		LastLat:   3.12,
		LastLng:   101.68,
	})
	_ = geo.UpdateDriverLocation(context.Background(), "driver-1", 3.12, 101.68)

	if _, err := svc.SetAvailability(context.Background(), "driver-1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.HasDriver("driver-1") {
		t.Error("offline driver still in geo index")
	}
}

func TestSetAvailability_NoProfile(t *testing.T) {
	t.Parallel()

	_, _, _, _, svc := newDriverFixture()

	_, err := svc.SetAvailability(context.Background(), "nobody", true)
	if !errors.Is(err, service.ErrRoleRequired) {
		t.Errorf("err = %v, want ErrRoleRequired", err)
	}
}

func TestUpdateLocation_MovesAvailableDriver(t *testing.T) {
	t.Parallel()

	driverRepo, _, geo, _, svc := newDriverFixture()
	driverRepo.AddProfile(&domain.DriverProfile{AccountID: "driver-1", Available: true})

	if err := svc.UpdateLocation(context.Background(), "driver-1", 3.15, 101.70); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := driverRepo.GetProfile("driver-1")
	if profile.LastLat != 3.15 || profile.LastLng != 101.70 {
		t.Errorf("last position = (%v, %v), want (3.15, 101.70)", profile.LastLat, profile.LastLng)
	}
	if !geo.HasDriver("driver-1") {
		t.Error("available driver not indexed after location update")
	}
}

func TestUpdateLocation_UnavailableDriverStaysOutOfIndex(t *testing.T) {
	t.Parallel()

	driverRepo, _, geo, _, svc := newDriverFixture()
	driverRepo.AddProfile(&domain.DriverProfile{AccountID: "driver-1", Available: false})

	if err := svc.UpdateLocation(context.Background(), "driver-1", 3.15, 101.70); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Position is still recorded for when the driver comes back online.
	if driverRepo.GetProfile("driver-1").LastLat != 3.15 {
		t.Error("last position not recorded")
	}
	if geo.HasDriver("driver-1") {
		t.Error("unavailable driver entered geo index")
	}
}

func TestUpdateLocation_StreamsToActiveRidePassenger(t *testing.T) {
	t.Parallel()

	driverRepo, rideRepo, _, pub, svc := newDriverFixture()
	driverRepo.AddProfile(&domain.DriverProfile{AccountID: "driver-1", Available: true})
	rideRepo.AddRide(&domain.Ride{
		ID:          "ride-1",
		PassengerID: "passenger-1",
		DriverID:    "driver-1",
		Status:      domain.RideStatusInProgress,
	})

	if err := svc.UpdateLocation(context.Background(), "driver-1", 3.15, 101.70); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := pub.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Type != "driver_location" {
		t.Errorf("event type = %s, want driver_location", events[0].Type)
	}
	if events[0].Topic != "user:passenger-1" {
		t.Errorf("topic = %s, want user:passenger-1", events[0].Topic)
	}
}

func TestUpdateLocation_NoActiveRideNoEvent(t *testing.T) {
	t.Parallel()

	driverRepo, _, _, pub, svc := newDriverFixture()
	driverRepo.AddProfile(&domain.DriverProfile{AccountID: "driver-1", Available: true})

	if err := svc.UpdateLocation(context.Background(), "driver-1", 3.15, 101.70); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.Events()) != 0 {
		t.Errorf("events = %d, want 0", len(pub.Events()))
	}
}

func TestUpdateLocation_RejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	driverRepo, _, _, _, svc := newDriverFixture()
	driverRepo.AddProfile(&domain.DriverProfile{AccountID: "driver-1", Available: true})

	err := svc.UpdateLocation(context.Background(), "driver-1", -91, 101.70)
	if !errors.Is(err, service.ErrInvalidPickupLocation) {
		t.Errorf("err = %v, want ErrInvalidPickupLocation", err)
	}
}

func TestWallet_ReturnsEarningsProfile(t *testing.T) {
	t.Parallel()

	driverRepo, _, _, _, svc := newDriverFixture()
	driverRepo.AddProfile(&domain.DriverProfile{
		AccountID:      "driver-1",
		WalletBalance:  42.50,
		TotalEarnings:  120.00,
		CompletedRides: 17,
	})

	profile, err := svc.Wallet(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.WalletBalance != 42.50 || profile.CompletedRides != 17 {
		t.Errorf("profile = %+v", profile)
	}
}
