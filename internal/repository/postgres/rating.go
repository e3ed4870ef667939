package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// RatingRepository is a PostgreSQL implementation of repository.RatingRepository.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new PostgreSQL rating repository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

// NewRatingRepositoryWithTx creates a rating repository using a transaction.
func NewRatingRepositoryWithTx(tx *sql.Tx) *RatingRepository {
	return &RatingRepository{q: tx}
}

// Create persists a new rating. The unique constraint on (ride_id, direction)
// makes double-rating a conflict rather than a silent overwrite.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, ride_id, rater_id, ratee_id, direction, scores, overall_score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		rating.ID,
		rating.RideID,
		rating.RaterID,
		rating.RateeID,
		rating.Direction,
		pq.Array(rating.Scores),
		rating.OverallScore,
		nullString(rating.Comment),
		rating.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// ExistsForRide reports whether the ride was already rated in the direction.
func (r *RatingRepository) ExistsForRide(ctx context.Context, rideID string, direction domain.RatingDirection) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM ratings WHERE ride_id = $1 AND direction = $2)`,
		rideID, direction).Scan(&exists)
	return exists, err
}

// ListByRatee returns all ratings received by an account in one direction.
func (r *RatingRepository) ListByRatee(ctx context.Context, rateeID string, direction domain.RatingDirection) ([]*domain.Rating, error) {
	query := `
		SELECT id, ride_id, rater_id, ratee_id, direction, scores, overall_score, comment, created_at
		FROM ratings WHERE ratee_id = $1 AND direction = $2 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, rateeID, direction)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		var rating domain.Rating
		var comment sql.NullString
		if err := rows.Scan(
			&rating.ID,
			&rating.RideID,
			&rating.RaterID,
			&rating.RateeID,
			&rating.Direction,
			pq.Array(&rating.Scores),
			&rating.OverallScore,
			&comment,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		rating.Comment = comment.String
		ratings = append(ratings, &rating)
	}
	return ratings, rows.Err()
}

// AggregateForRatee recomputes the mean overall score across all ratings
// received by an account in one direction. Full recomputation on purpose: the
// profile rating is always the exact mean of the rating rows, never a drifting
// incremental average.
func (r *RatingRepository) AggregateForRatee(ctx context.Context, rateeID string, direction domain.RatingDirection) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT AVG(overall_score), COUNT(*) FROM ratings WHERE ratee_id = $1 AND direction = $2`,
		rateeID, direction).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}
