package postgres

import (
	"context"
	"database/sql"

	"studentcab/internal/domain"
	"studentcab/internal/repository"
)

// MessageRepository is a PostgreSQL implementation of repository.MessageRepository.
type MessageRepository struct {
	q Querier
}

// NewMessageRepository creates a new PostgreSQL message repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{q: db}
}

// Create persists a new message.
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (id, ride_id, sender_id, receiver_id, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		message.ID,
		message.RideID,
		message.SenderID,
		message.ReceiverID,
		message.Body,
		message.Read,
		message.CreatedAt,
	)
	return err
}

// GetByID retrieves a message by ID.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `
		SELECT id, ride_id, sender_id, receiver_id, body, is_read, created_at
		FROM messages WHERE id = $1
	`

	var m domain.Message
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.RideID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Body,
		&m.Read,
		&m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByRideID returns the ride's messages oldest first.
func (r *MessageRepository) ListByRideID(ctx context.Context, rideID string) ([]*domain.Message, error) {
	query := `
		SELECT id, ride_id, sender_id, receiver_id, body, is_read, created_at
		FROM messages WHERE ride_id = $1 ORDER BY created_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID,
			&m.RideID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Body,
			&m.Read,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// MarkRead marks a message read iff readerID is its receiver. The receiver
// guard sits in the WHERE clause so a sender cannot flip its own messages.
func (r *MessageRepository) MarkRead(ctx context.Context, id, readerID string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE id = $1 AND receiver_id = $2`,
		id, readerID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
