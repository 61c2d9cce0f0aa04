package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost makes a single verification take tens of milliseconds
// on current hardware.
const DefaultBcryptCost = 11

const compareTimeout = 5 * time.Second

// PasswordHasher wraps bcrypt behind a bounded concurrency gate: hashing is
// deliberately CPU-heavy, and an unbounded number of in-flight comparisons
// must not starve connection handling. Each call also runs under a deadline
// so a pathological input cannot hold a slot indefinitely.
type PasswordHasher struct {
	cost int
	gate chan struct{}
}

// NewPasswordHasher creates a hasher with the given bcrypt cost. Costs below
// bcrypt.MinCost fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{
		cost: cost,
		gate: make(chan struct{}, runtime.GOMAXPROCS(0)*2),
	}
}

// Hash derives a salted one-way hash of password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	var out string
	err := h.run(ctx, func() error {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		out = string(hashed)
		return nil
	})
	return out, err
}

// Compare verifies password against a stored hash. A mismatch is reported as
// ErrInvalidCredentials; anything else is an operational failure.
func (h *PasswordHasher) Compare(ctx context.Context, hash, password string) error {
	return h.run(ctx, func() error {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrInvalidCredentials
			}
			return fmt.Errorf("compare password: %w", err)
		}
		return nil
	})
}

func (h *PasswordHasher) run(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, compareTimeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case h.gate <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan error, 1)
	go func() {
		defer func() { <-h.gate }()
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
