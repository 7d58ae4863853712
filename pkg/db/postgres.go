package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func Connect(databaseURL string) (*sql.DB, error) {

	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	err = db.Ping()
	if err != nil {

		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the store tables if they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		stock INTEGER NOT NULL CHECK (stock >= 0),
		category TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS sales (
		id SERIAL PRIMARY KEY,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		subtotal DOUBLE PRECISION NOT NULL,
		tax DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sale_items (
		id SERIAL PRIMARY KEY,
		sale_id INTEGER NOT NULL REFERENCES sales(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL,
		unit_price DOUBLE PRECISION NOT NULL
	);

	CREATE TABLE IF NOT EXISTS report (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		description TEXT
	);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create store tables: %w", err)
	}
	return nil
}
