package ports

import (
	"context"
	"errors"

	"podstore/internal/features/auth/domain"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository is the account storage port.
type UserRepository interface {
	// Create inserts a new user; ErrEmailTaken on duplicate email.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail returns the user with the given email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID returns the user with the given id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// CountByRole returns the number of users with the given role.
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}
