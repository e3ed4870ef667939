package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusPending    RideStatus = "pending"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in-progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Terminal reports whether the status ends the ride lifecycle.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// PickupStatus represents the outcome of the driver picking up the passenger.
// It gates the accepted → in-progress transition.
type PickupStatus string

const (
	PickupStatusPending    PickupStatus = "pending"
	PickupStatusSuccessful PickupStatus = "successful"
	PickupStatusFailed     PickupStatus = "failed"
)

// PaymentMethod represents the payment method for a ride.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// Location is a named geographic point.
type Location struct {
	Address string
	Lat     float64
	Lng     float64
}

// Ride represents one passenger trip request from pickup to dropoff.
type Ride struct {
	ID            string
	PassengerID   string
	DriverID      string // empty until accepted
	Pickup        Location
	Dropoff       Location
	DistanceKm    float64
	Fare          float64
	Status        RideStatus
	PickupStatus  PickupStatus
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	RequestedAt   time.Time
	AcceptedAt    time.Time
	StartedAt     time.Time
	CompletedAt   time.Time
	CancelledAt   time.Time
	CancelReason  string
}
