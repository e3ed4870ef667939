package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"studentcab/internal/domain"
	"studentcab/internal/service"
)

func newRideService(rideRepo *MockRideRepository, geo *MockGeoStore, pub *RecordingPublisher) *service.RideService {
	return service.NewRideService(rideRepo, geo, service.DefaultPricing(), service.NewNotificationService(pub))
}

func validBooking(passengerID string) service.BookRideRequest {
	return service.BookRideRequest{
		PassengerID:    passengerID,
		PickupAddress:  "Jalan Bukit Bintang",
		PickupLat:      3.1219,
		PickupLng:      101.6869,
		DropoffAddress: "KLCC",
		DropoffLat:     3.1575,
		DropoffLng:     101.6804,
		PaymentMethod:  domain.PaymentMethodCash,
	}
}

func TestBookRide_CreatesPendingRideWithQuote(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	geo := NewMockGeoStore()
	pub := NewRecordingPublisher()
	svc := newRideService(rideRepo, geo, pub)

	ride, err := svc.BookRide(context.Background(), validBooking("passenger-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusPending {
		t.Errorf("status = %s, want pending", ride.Status)
	}
	if ride.PickupStatus != domain.PickupStatusPending {
		t.Errorf("pickup status = %s, want pending", ride.PickupStatus)
	}
	if ride.DriverID != "" {
		t.Errorf("new ride has driver %s", ride.DriverID)
	}

	// Fare is locked in at booking time.
	wantFare := service.DefaultPricing().Fare(service.HaversineKm(3.1219, 101.6869, 3.1575, 101.6804))
	if ride.Fare != wantFare {
		t.Errorf("fare = %v, want %v", ride.Fare, wantFare)
	}

	// The ride enters the discovery pool and drivers get notified.
	if !geo.HasPendingRide(ride.ID) {
		t.Error("ride not added to discovery pool")
	}
	if pub.CountByType("ride_requested") != 1 {
		t.Errorf("ride_requested events = %d, want 1", pub.CountByType("ride_requested"))
	}
}

func TestBookRide_Validation(t *testing.T) {
	t.Parallel()

	svc := newRideService(NewMockRideRepository(), NewMockGeoStore(), NewRecordingPublisher())

	tests := []struct {
		name    string
		mutate  func(*service.BookRideRequest)
		wantErr error
	}{
		{"missing passenger", func(r *service.BookRideRequest) { r.PassengerID = "" }, service.ErrInvalidAccountID},
		{"missing pickup address", func(r *service.BookRideRequest) { r.PickupAddress = "" }, service.ErrInvalidPickupLocation},
		{"latitude out of range", func(r *service.BookRideRequest) { r.PickupLat = 91 }, service.ErrInvalidPickupLocation},
		{"longitude out of range", func(r *service.BookRideRequest) { r.DropoffLng = 181 }, service.ErrInvalidDropoffLocation},
		{"unknown payment method", func(r *service.BookRideRequest) { r.PaymentMethod = "cheque" }, service.ErrInvalidPaymentMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBooking("passenger-1")
			tt.mutate(&req)
			_, err := svc.BookRide(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBookRide_OneActiveRidePerPassenger(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	svc := newRideService(rideRepo, NewMockGeoStore(), NewRecordingPublisher())

	if _, err := svc.BookRide(context.Background(), validBooking("passenger-1")); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := svc.BookRide(context.Background(), validBooking("passenger-1"))
	if !errors.Is(err, service.ErrActiveRideExists) {
		t.Errorf("second booking err = %v, want ErrActiveRideExists", err)
	}
	if rideRepo.CountRides() != 1 {
		t.Errorf("rides = %d, want 1", rideRepo.CountRides())
	}

	// A different passenger is unaffected.
	if _, err := svc.BookRide(context.Background(), validBooking("passenger-2")); err != nil {
		t.Errorf("other passenger booking failed: %v", err)
	}
}

func TestSearchRide_QuoteSurvivesGeoOutage(t *testing.T) {
	t.Parallel()

	geo := NewMockGeoStore()
	geo.FindNearbyDriversError = errors.New("redis down")
	svc := newRideService(NewMockRideRepository(), geo, NewRecordingPublisher())

	result, err := svc.SearchRide(context.Background(), service.SearchRequest{
		PickupLat: 3.1219, PickupLng: 101.6869,
		DropoffLat: 3.1575, DropoffLng: 101.6804,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fare == 0 {
		t.Error("quote missing despite geo outage")
	}
	if result.NearbyDrivers != 0 {
		t.Errorf("nearby drivers = %d, want 0 on outage", result.NearbyDrivers)
	}
}

func TestCancelRide_PendingAndAcceptedOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  domain.RideStatus
		wantErr error
	}{
		{"pending cancels", domain.RideStatusPending, nil},
		{"accepted cancels", domain.RideStatusAccepted, nil},
		{"in-progress does not", domain.RideStatusInProgress, service.ErrRideNotCancellable},
		{"completed does not", domain.RideStatusCompleted, service.ErrRideNotCancellable},
		{"cancelled stays cancelled", domain.RideStatusCancelled, service.ErrRideNotCancellable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rideRepo := NewMockRideRepository()
			rideRepo.AddRide(&domain.Ride{
				ID:          "ride-1",
				PassengerID: "passenger-1",
				Status:      tt.status,
			})
			svc := newRideService(rideRepo, NewMockGeoStore(), NewRecordingPublisher())

			ride, err := svc.CancelRide(context.Background(), service.CancelRideRequest{
				RideID:      "ride-1",
				PassengerID: "passenger-1",
				Reason:      "change of plans",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if ride.Status != domain.RideStatusCancelled {
					t.Errorf("status = %s, want cancelled", ride.Status)
				}
				if ride.CancelReason != "change of plans" {
					t.Errorf("reason = %q", ride.CancelReason)
				}
			}
		})
	}
}

func TestCancelRide_OnlyThePassengerMayCancel(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{
		ID:          "ride-1",
		PassengerID: "passenger-1",
		Status:      domain.RideStatusPending,
	})
	svc := newRideService(rideRepo, NewMockGeoStore(), NewRecordingPublisher())

	_, err := svc.CancelRide(context.Background(), service.CancelRideRequest{
		RideID:      "ride-1",
		PassengerID: "someone-else",
	})
	if !errors.Is(err, service.ErrNotRidePassenger) {
		t.Errorf("err = %v, want ErrNotRidePassenger", err)
	}
}

func TestCancelRide_RemovesRideFromDiscoveryPool(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	geo := NewMockGeoStore()
	svc := newRideService(rideRepo, geo, NewRecordingPublisher())

	ride, err := svc.BookRide(context.Background(), validBooking("passenger-1"))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if _, err := svc.CancelRide(context.Background(), service.CancelRideRequest{
		RideID:      ride.ID,
		PassengerID: "passenger-1",
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if geo.HasPendingRide(ride.ID) {
		t.Error("cancelled ride still in discovery pool")
	}
}

func TestCancelRide_NotifiesAssignedDriver(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	pub := NewRecordingPublisher()
	rideRepo.AddRide(&domain.Ride{
		ID:          "ride-1",
		PassengerID: "passenger-1",
		DriverID:    "driver-1",
		Status:      domain.RideStatusAccepted,
		AcceptedAt:  time.Now(),
	})
	svc := newRideService(rideRepo, NewMockGeoStore(), pub)

	if _, err := svc.CancelRide(context.Background(), service.CancelRideRequest{
		RideID:      "ride-1",
		PassengerID: "passenger-1",
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if pub.CountByType("ride_cancelled") != 1 {
		t.Errorf("ride_cancelled events = %d, want 1", pub.CountByType("ride_cancelled"))
	}
}

func TestGetRide_VisibleToPartiesOnly(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	rideRepo.AddRide(&domain.Ride{
		ID:          "ride-1",
		PassengerID: "passenger-1",
		DriverID:    "driver-1",
		Status:      domain.RideStatusInProgress,
	})
	svc := newRideService(rideRepo, NewMockGeoStore(), NewRecordingPublisher())

	if _, err := svc.GetRide(context.Background(), "ride-1", "passenger-1"); err != nil {
		t.Errorf("passenger denied: %v", err)
	}
	if _, err := svc.GetRide(context.Background(), "ride-1", "driver-1"); err != nil {
		t.Errorf("driver denied: %v", err)
	}
	if _, err := svc.GetRide(context.Background(), "ride-1", "stranger"); !errors.Is(err, service.ErrNotRidePassenger) {
		t.Errorf("stranger err = %v, want ErrNotRidePassenger", err)
	}
}
