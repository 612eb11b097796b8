package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"cefilm-backend/internal/config"
)

// NewPostgres opens the connection pool and applies the schema.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates the schema idempotently.
func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(120),
			avatar_url TEXT,
			is_vip BOOLEAN NOT NULL DEFAULT FALSE,
			vip_since TIMESTAMPTZ,
			free_tickets INTEGER NOT NULL DEFAULT 5 CHECK (free_tickets >= 0),
			last_ticket_reset TIMESTAMPTZ,
			stripe_customer_id VARCHAR(255) UNIQUE,
			stripe_subscription_id VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS guest_tickets (
			ip VARCHAR(64) PRIMARY KEY,
			remaining INTEGER NOT NULL DEFAULT 5 CHECK (remaining >= 0),
			last_reset_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS watchlist_items (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			original_title VARCHAR(255),
			imdb_id VARCHAR(32),
			year VARCHAR(16),
			notes VARCHAR(500),
			synopsis TEXT,
			reason TEXT,
			director VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS vip_history (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			quiz_name VARCHAR(255) NOT NULL,
			preferences_json JSONB NOT NULL DEFAULT '[]',
			answers_json JSONB NOT NULL,
			result_main_json JSONB NOT NULL,
			alternatives_json JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			movie_title VARCHAR(255) NOT NULL,
			imdb_id VARCHAR(32),
			score SMALLINT NOT NULL CHECK (score BETWEEN 1 AND 10),
			review TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS discussions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			topic VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watchlist_items_user_id ON watchlist_items(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_vip_history_user_id ON vip_history(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user_id ON ratings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_discussions_user_id ON discussions(user_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
