package domain

import "time"

// RatingDirection identifies who rated whom on a ride.
type RatingDirection string

const (
	DirectionPassengerToDriver RatingDirection = "passenger-to-driver"
	DirectionDriverToPassenger RatingDirection = "driver-to-passenger"
)

// Rating is one party's review of the other for a single ride. Immutable once
// created; at most one per (ride, direction). OverallScore is the unweighted
// mean of the component scores at creation time and is never recomputed.
type Rating struct {
	ID           string
	RideID       string
	RaterID      string
	RateeID      string
	Direction    RatingDirection
	Scores       []float64
	OverallScore float64
	Comment      string
	CreatedAt    time.Time
}
