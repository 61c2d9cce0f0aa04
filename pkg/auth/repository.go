package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports missing or malformed input, keyed by field name.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %v", names)
}

// UserRepository abstracts persistence concerns from the domain layer.
// Every mutation is a single atomic statement, durable on return.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)

	// AssignToken sets the bearer token only if none is assigned yet and
	// returns the canonical stored token either way, so concurrent first
	// logins converge on one value.
	AssignToken(ctx context.Context, id uuid.UUID, token string, now time.Time) (string, error)

	// SetResetToken replaces any pending reset with the given token and
	// issuance time in one statement.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, sentAt time.Time) error

	// CompleteReset stores the new password hash and clears the pending
	// reset state in one statement.
	CompleteReset(ctx context.Context, id uuid.UUID, passwordHash string, now time.Time) error
}

// AuthEventRepository is an append-only audit log of authentication attempts.
type AuthEventRepository interface {
	Record(ctx context.Context, event AuthEvent) error
}
