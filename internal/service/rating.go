package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// RateDriverRequest carries the passenger's component scores for the driver.
type RateDriverRequest struct {
	RideID         string
	PassengerID    string
	DrivingSkills  float64
	Friendliness   float64
	CarCleanliness float64
	Punctuality    float64
	Comment        string
}

// RatePassengerRequest carries the driver's component scores for the passenger.
type RatePassengerRequest struct {
	RideID      string
	DriverID    string
	Punctuality float64
	Cleanliness float64
	Manners     float64
	Comment     string
}

// RatingService records per-ride ratings and keeps account aggregates
// consistent by recomputing the average from all stored ratings.
type RatingService struct {
	ratingRepo  repository.RatingRepository
	rideRepo    repository.RideRepository
	accountRepo repository.AccountRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratingRepo repository.RatingRepository, rideRepo repository.RideRepository, accountRepo repository.AccountRepository) *RatingService {
	return &RatingService{
		ratingRepo:  ratingRepo,
		rideRepo:    rideRepo,
		accountRepo: accountRepo,
	}
}

// RateDriver records the passenger's rating of the driver for a completed
// ride. One rating per ride per direction.
func (s *RatingService) RateDriver(ctx context.Context, req RateDriverRequest) (*domain.Rating, error) {
	scores := []float64{req.DrivingSkills, req.Friendliness, req.CarCleanliness, req.Punctuality}

	ride, err := s.ratedRide(ctx, req.RideID, scores)
	if err != nil {
		return nil, err
	}
	if ride.PassengerID != req.PassengerID {
		return nil, ErrNotRidePassenger
	}

	return s.record(ctx, ride, req.PassengerID, ride.DriverID, domain.DirectionPassengerToDriver, scores, req.Comment)
}

// RatePassenger records the driver's rating of the passenger for a
// completed ride.
func (s *RatingService) RatePassenger(ctx context.Context, req RatePassengerRequest) (*domain.Rating, error) {
	scores := []float64{req.Punctuality, req.Cleanliness, req.Manners}

	ride, err := s.ratedRide(ctx, req.RideID, scores)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != req.DriverID {
		return nil, ErrNotAssignedDriver
	}

	return s.record(ctx, ride, req.DriverID, ride.PassengerID, domain.DirectionDriverToPassenger, scores, req.Comment)
}

// RatingsFor lists the ratings an account has received in one direction.
func (s *RatingService) RatingsFor(ctx context.Context, rateeID string, direction domain.RatingDirection) ([]*domain.Rating, error) {
	if rateeID == "" {
		return nil, ErrInvalidAccountID
	}
	return s.ratingRepo.ListByRatee(ctx, rateeID, direction)
}

func (s *RatingService) ratedRide(ctx context.Context, rideID string, scores []float64) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	for _, sc := range scores {
		if sc < 1 || sc > 5 {
			return nil, ErrInvalidScore
		}
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	return ride, nil
}

func (s *RatingService) record(ctx context.Context, ride *domain.Ride, raterID, rateeID string, direction domain.RatingDirection, scores []float64, comment string) (*domain.Rating, error) {
	exists, err := s.ratingRepo.ExistsForRide(ctx, ride.ID, direction)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRated
	}

	var sum float64
	for _, sc := range scores {
		sum += sc
	}

	rating := &domain.Rating{
		ID:           uuid.New().String(),
		RideID:       ride.ID,
		RaterID:      raterID,
		RateeID:      rateeID,
		Direction:    direction,
		Scores:       scores,
		OverallScore: sum / float64(len(scores)),
		Comment:      comment,
		CreatedAt:    time.Now(),
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}

	// Full recompute keeps the aggregate exact regardless of replay order.
	avg, count, err := s.ratingRepo.AggregateForRatee(ctx, rateeID, direction)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateRating(ctx, rateeID, round1(avg), count); err != nil {
		return nil, err
	}

	return rating, nil
}
