package passreset

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/avdeev21/accounts/pkg/auth"
	"github.com/avdeev21/accounts/pkg/clock"
)

// TokenTTL is how long a reset token stays usable after issuance.
const TokenTTL = 10 * time.Minute

// Reset-state errors, mapped by the HTTP layer onto token-keyed responses.
var (
	ErrNeverRequested = errors.New("reset has never been requested")
	ErrExpired        = errors.New("reset token is expired")
	ErrIncorrect      = errors.New("reset token is incorrect")
)

// Notifier hands a freshly issued reset token to an external delivery
// channel keyed by the user's contact address. Delivery is at-least-once
// and entirely outside this package.
type Notifier interface {
	PasswordReset(ctx context.Context, user auth.User, token string) error
}

// ResetUseCase is the password-reset state machine over a user:
// no pending reset → Request → pending(token, sentAt) → Confirm → no pending
// reset. Expiry does not clear the pending state; a fresh Request or a
// successful Confirm does.
type ResetUseCase interface {
	Request(ctx context.Context, email string) error
	Confirm(ctx context.Context, email, token, newPassword string) error
}

type resetService struct {
	users    auth.UserRepository
	hasher   *auth.PasswordHasher
	notifier Notifier
	clock    clock.Clock
}

// NewResetService returns the default implementation of ResetUseCase.
func NewResetService(users auth.UserRepository, hasher *auth.PasswordHasher, notifier Notifier, clk clock.Clock) ResetUseCase {
	return &resetService{users: users, hasher: hasher, notifier: notifier, clock: clk}
}

// Request issues a fresh reset token for the account and hands it to the
// notifier. Any previously pending token is overwritten: only the most
// recent request is honorable. The token is persisted before the notifier
// sees it, so a crash in between can lose an email but never reference a
// token the store does not hold.
func (s *resetService) Request(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := auth.NewToken()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, s.clock.Now()); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if err := s.notifier.PasswordReset(ctx, user, token); err != nil {
		return fmt.Errorf("notify password reset: %w", err)
	}
	return nil
}

// Confirm validates the submitted token against the pending reset and, if
// everything checks out, replaces the password hash and clears the pending
// state in one atomic mutation. Every failure leaves the state untouched.
func (s *resetService) Confirm(ctx context.Context, email, token, newPassword string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !user.HasPendingReset() {
		return ErrNeverRequested
	}
	if s.clock.Now().Sub(*user.ResetSentAt) >= TokenTTL {
		return ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(user.ResetToken)) != 1 {
		return ErrIncorrect
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	if err := s.users.CompleteReset(ctx, user.ID, hash, s.clock.Now()); err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}
	return nil
}
