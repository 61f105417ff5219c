package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"podstore/internal/core/database"
	"podstore/internal/features/auth/domain"
	"podstore/internal/features/auth/ports"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

// PostgresUserRepository implements ports.UserRepository on sqlx.
type PostgresUserRepository struct {
	db *database.DB
}

// NewPostgresUserRepository creates a PostgresUserRepository.
func NewPostgresUserRepository(db *database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new user.
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.SQL.ExecContext(ctx, `INSERT INTO users (id, email, name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Name, user.PasswordHash, string(user.Role))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ports.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail returns the user with the given email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.SQL.GetContext(ctx, &user,
		"SELECT * FROM users WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetByID returns the user with the given id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.SQL.GetContext(ctx, &user,
		"SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// CountByRole returns the number of users with the given role.
func (r *PostgresUserRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var count int
	err := r.db.SQL.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM users WHERE role = $1", string(role))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
