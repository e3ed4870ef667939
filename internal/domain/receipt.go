package domain

import "time"

// Receipt is the fare breakdown for a completed ride.
type Receipt struct {
	ID            string        `json:"id"`
	RideID        string        `json:"rideId"`
	PassengerID   string        `json:"passengerId"`
	DriverID      string        `json:"driverId"`
	Pickup        Location      `json:"pickup"`
	Dropoff       Location      `json:"dropoff"`
	DistanceKm    float64       `json:"distanceKm"`
	BaseFare      float64       `json:"baseFare"`
	DistanceFare  float64       `json:"distanceFare"`
	TotalFare     float64       `json:"totalFare"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Duration      time.Duration `json:"duration"`
	StartedAt     time.Time     `json:"startedAt"`
	CompletedAt   time.Time     `json:"completedAt"`
	GeneratedAt   time.Time     `json:"generatedAt"`
}
