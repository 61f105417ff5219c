package database

import (
	"fmt"
	"time"

	"podstore/internal/core/config"
	"podstore/internal/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Postgres driver
)

// DB wraps the sqlx connection pool.
type DB struct {
	SQL *sqlx.DB
}

// New connects to Postgres and configures the pool.
func New(cfg config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	logger.Get().Info("Database connection established")
	return &DB{SQL: db}, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.SQL.Close()
}
