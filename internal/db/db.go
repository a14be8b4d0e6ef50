package db

import (
	"database/sql"

	_ "github.com/lib/pq"
)

func Connect(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the tables the API needs if they don't exist yet.
// Safe to run on every startup.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			user_id INT PRIMARY KEY REFERENCES users(id),
			tier TEXT NOT NULL DEFAULT 'free',
			current_period_end TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS habit_plans (
			id UUID PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id),
			assessment JSONB NOT NULL,
			habits JSONB NOT NULL,
			summary TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS habit_plans_user_created_idx
			ON habit_plans (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS analytics_events (
			id SERIAL PRIMARY KEY,
			event_name TEXT NOT NULL,
			event_time TIMESTAMPTZ NOT NULL,
			user_id INT NOT NULL,
			session_id TEXT,
			platform TEXT,
			app_version TEXT,
			device_locale TEXT,
			ip_country TEXT,
			source_event_key TEXT UNIQUE,
			properties JSONB
		)`,
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
