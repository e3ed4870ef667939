package repository

import (
	"context"

	"studentcab/internal/domain"
)

// RatingRepository defines the persistence operations for ratings.
type RatingRepository interface {
	// Create persists a new rating. Returns ErrConflict if the ride has
	// already been rated in the same direction.
	Create(ctx context.Context, rating *domain.Rating) error

	// ExistsForRide reports whether the ride was already rated in the given
	// direction.
	ExistsForRide(ctx context.Context, rideID string, direction domain.RatingDirection) (bool, error)

	// ListByRatee returns all ratings received by an account in one
	// direction, newest first.
	ListByRatee(ctx context.Context, rateeID string, direction domain.RatingDirection) ([]*domain.Rating, error)

	// AggregateForRatee recomputes the mean overall score and count across
	// all ratings received by an account in one direction.
	AggregateForRatee(ctx context.Context, rateeID string, direction domain.RatingDirection) (avg float64, count int, err error)
}
