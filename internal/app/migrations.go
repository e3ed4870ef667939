package app

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the table definitions, applied in order on startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		credential_hash TEXT NOT NULL,
		is_passenger BOOLEAN NOT NULL DEFAULT FALSE,
		is_driver BOOLEAN NOT NULL DEFAULT FALSE,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		rating_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS driver_profiles (
		account_id UUID PRIMARY KEY REFERENCES accounts(id),
		vehicle_model TEXT NOT NULL,
		vehicle_color TEXT NOT NULL,
		plate_number TEXT NOT NULL UNIQUE,
		available BOOLEAN NOT NULL DEFAULT FALSE,
		last_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
		wallet_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_earnings DOUBLE PRECISION NOT NULL DEFAULT 0,
		completed_rides INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS passenger_profiles (
		account_id UUID PRIMARY KEY REFERENCES accounts(id),
		stored_card TEXT,
		emergency_contacts TEXT[] NOT NULL DEFAULT '{}'
	)`,

	`CREATE TABLE IF NOT EXISTS rides (
		id UUID PRIMARY KEY,
		passenger_id UUID NOT NULL REFERENCES accounts(id),
		driver_id UUID REFERENCES accounts(id),
		pickup_address TEXT NOT NULL,
		pickup_lat DOUBLE PRECISION NOT NULL,
		pickup_lng DOUBLE PRECISION NOT NULL,
		dropoff_address TEXT NOT NULL,
		dropoff_lat DOUBLE PRECISION NOT NULL,
		dropoff_lng DOUBLE PRECISION NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		fare DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		pickup_status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT NOT NULL,
		payment_status TEXT,
		requested_at TIMESTAMPTZ NOT NULL,
		accepted_at TIMESTAMPTZ,
		started_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		cancel_reason TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_passenger ON rides (passenger_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_driver ON rides (driver_id, status)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		ride_id UUID NOT NULL UNIQUE REFERENCES rides(id),
		payer_id UUID NOT NULL REFERENCES accounts(id),
		payee_id UUID NOT NULL REFERENCES accounts(id),
		amount DOUBLE PRECISION NOT NULL,
		method TEXT NOT NULL,
		status TEXT NOT NULL,
		intent_id TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		settled_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_intent ON payments (intent_id)`,

	`CREATE TABLE IF NOT EXISTS ratings (
		id UUID PRIMARY KEY,
		ride_id UUID NOT NULL REFERENCES rides(id),
		rater_id UUID NOT NULL REFERENCES accounts(id),
		ratee_id UUID NOT NULL REFERENCES accounts(id),
		direction TEXT NOT NULL,
		scores DOUBLE PRECISION[] NOT NULL,
		overall_score DOUBLE PRECISION NOT NULL,
		comment TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (ride_id, direction)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_ratee ON ratings (ratee_id, direction)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		ride_id UUID NOT NULL REFERENCES rides(id),
		sender_id UUID NOT NULL REFERENCES accounts(id),
		receiver_id UUID NOT NULL REFERENCES accounts(id),
		body TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_ride ON messages (ride_id, created_at)`,
}

// Migrate applies the schema. Statements are idempotent, so rerunning on
// every boot is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
