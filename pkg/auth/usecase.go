package auth

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/google/uuid"

	"github.com/avdeev21/accounts/pkg/clock"
)

// AuthUseCase describes credential verification and bearer-token issuance.
type AuthUseCase interface {
	Authenticate(ctx context.Context, email, password string, clientIP netip.Addr) (AuthResult, error)
}

type AuthResult struct {
	User User
}

type authService struct {
	users  UserRepository
	events AuthEventRepository
	hasher *PasswordHasher
	clock  clock.Clock
}

// NewAuthService returns the default implementation of AuthUseCase.
func NewAuthService(users UserRepository, events AuthEventRepository, hasher *PasswordHasher, clk clock.Clock) AuthUseCase {
	return &authService{users: users, events: events, hasher: hasher, clock: clk}
}

// Authenticate verifies email+password and returns the account with its
// bearer token. The token is generated on the first successful
// authentication and reused on every one after it; logging in twice never
// rotates it.
//
// Exactly one AuthEvent is recorded per attempt that resolves to a known
// account. Unknown emails record nothing: the IP/email pair was never tied
// to a real account.
func (s *authService) Authenticate(ctx context.Context, email, password string, clientIP netip.Addr) (AuthResult, error) {
	fields := map[string][]string{}
	if strings.TrimSpace(email) == "" {
		fields["email"] = []string{"cannot be blank"}
	}
	if password == "" {
		fields["password"] = []string{"cannot be blank"}
	}
	if len(fields) > 0 {
		return AuthResult{}, &ValidationError{Fields: fields}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}

	err = s.hasher.Compare(ctx, user.PasswordHash, password)
	if errors.Is(err, ErrInvalidCredentials) {
		if recErr := s.record(ctx, user.ID, clientIP, false); recErr != nil {
			return AuthResult{}, recErr
		}
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.record(ctx, user.ID, clientIP, true); err != nil {
		return AuthResult{}, err
	}

	if user.Token == "" {
		token, err := NewToken()
		if err != nil {
			return AuthResult{}, err
		}
		stored, err := s.users.AssignToken(ctx, user.ID, token, s.clock.Now())
		if err != nil {
			return AuthResult{}, fmt.Errorf("assign token: %w", err)
		}
		user.Token = stored
	}

	return AuthResult{User: user}, nil
}

func (s *authService) record(ctx context.Context, userID uuid.UUID, clientIP netip.Addr, success bool) error {
	event := AuthEvent{
		ID:        uuid.New(),
		IPAddress: clientIP,
		UserID:    userID,
		Success:   success,
		CreatedAt: s.clock.Now(),
	}
	if err := s.events.Record(ctx, event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}
	return nil
}
