package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createClientsTable,
		createConcertsTable,
		createTicketsTable,
		createBookingsTable,
		createBookingsCreatedAtIndex,
		createReportRequestsTable,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    first_name VARCHAR(100) NOT NULL DEFAULT '',
    surname VARCHAR(100) NOT NULL DEFAULT '',
    registered_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createClientsTable = `
CREATE TABLE IF NOT EXISTS clients (
    client_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    concert_id BIGINT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createConcertsTable = `
CREATE TABLE IF NOT EXISTS concerts (
    id BIGSERIAL PRIMARY KEY,
    concert_name VARCHAR(500) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

// price и quantity в билетах, total и tickets в бронированиях исторически
// приходят нестрогими типами, поэтому хранятся как TEXT / JSONB.
const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id BIGSERIAL PRIMARY KEY,
    concert_id BIGINT NOT NULL,
    ticket_name VARCHAR(255) NOT NULL,
    price TEXT,
    quantity INTEGER NOT NULL DEFAULT 0
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id BIGSERIAL PRIMARY KEY,
    concert_id BIGINT NOT NULL,
    user_id INTEGER REFERENCES users(user_id),
    status BOOLEAN NOT NULL DEFAULT FALSE,
    total TEXT,
    tickets JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createBookingsCreatedAtIndex = `
CREATE INDEX IF NOT EXISTS bookings_concert_created_at_idx
ON bookings (concert_id, created_at);`

const createReportRequestsTable = `
CREATE TABLE IF NOT EXISTS report_requests (
    id BIGSERIAL PRIMARY KEY,
    request_id VARCHAR(64) NOT NULL,
    identity VARCHAR(255) NOT NULL,
    concert_id BIGINT,
    week_start DATE NOT NULL,
    bookings_total BIGINT NOT NULL DEFAULT 0,
    revenue TEXT NOT NULL DEFAULT '0',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`
