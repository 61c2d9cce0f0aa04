package passreset_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avdeev21/accounts/pkg/auth"
	"github.com/avdeev21/accounts/pkg/passreset"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeUserRepo struct {
	users map[string]auth.User
}

func (r *fakeUserRepo) Create(_ context.Context, user auth.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (auth.User, error) {
	user, ok := r.users[email]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) AssignToken(_ context.Context, id uuid.UUID, token string, now time.Time) (string, error) {
	return token, nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id uuid.UUID, token string, sentAt time.Time) error {
	for email, user := range r.users {
		if user.ID == id {
			user.ResetToken = token
			user.ResetSentAt = &sentAt
			r.users[email] = user
			return nil
		}
	}
	return auth.ErrNotFound
}

func (r *fakeUserRepo) CompleteReset(_ context.Context, id uuid.UUID, passwordHash string, now time.Time) error {
	for email, user := range r.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			user.ResetToken = ""
			user.ResetSentAt = nil
			r.users[email] = user
			return nil
		}
	}
	return auth.ErrNotFound
}

type notification struct {
	user  auth.User
	token string
}

type fakeNotifier struct {
	sent []notification
}

func (n *fakeNotifier) PasswordReset(_ context.Context, user auth.User, token string) error {
	n.sent = append(n.sent, notification{user: user, token: token})
	return nil
}

type fixture struct {
	svc      passreset.ResetUseCase
	users    *fakeUserRepo
	notifier *fakeNotifier
	hasher   *auth.PasswordHasher
	clock    *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := &fakeUserRepo{users: make(map[string]auth.User)}
	notifier := &fakeNotifier{}
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	clk := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return &fixture{
		svc:      passreset.NewResetService(users, hasher, notifier, clk),
		users:    users,
		notifier: notifier,
		hasher:   hasher,
		clock:    clk,
	}
}

func (f *fixture) seedUser(t *testing.T, email, password string) auth.User {
	t.Helper()
	hash, err := f.hasher.Hash(context.Background(), password)
	require.NoError(t, err)
	user := auth.User{ID: uuid.New(), Email: email, PasswordHash: hash}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestRequestUnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Request(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, auth.ErrNotFound)
	assert.Empty(t, f.notifier.sent)
}

func TestRequestStoresTokenAndNotifies(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "a@x.com", "secret1")

	require.NoError(t, f.svc.Request(context.Background(), "a@x.com"))

	user, err := f.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.True(t, user.HasPendingReset())
	assert.Equal(t, f.clock.Now(), *user.ResetSentAt)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, user.ResetToken, f.notifier.sent[0].token, "notifier must see the persisted token")
	assert.Equal(t, "a@x.com", f.notifier.sent[0].user.Email)
}

func TestConfirmReplacesPasswordAndClearsState(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "a@x.com", "secret1")
	require.NoError(t, f.svc.Request(context.Background(), "a@x.com"))
	token := f.notifier.sent[0].token

	f.clock.Advance(5 * time.Minute)
	require.NoError(t, f.svc.Confirm(context.Background(), "a@x.com", token, "secret2"))

	user, err := f.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.False(t, user.HasPendingReset(), "pending state must be cleared")
	require.NoError(t, f.hasher.Compare(context.Background(), user.PasswordHash, "secret2"))
	require.ErrorIs(t, f.hasher.Compare(context.Background(), user.PasswordHash, "secret1"), auth.ErrInvalidCredentials)
}

func TestConfirmNeverRequested(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "a@x.com", "secret1")

	err := f.svc.Confirm(context.Background(), "a@x.com", "whatever", "secret2")
	require.ErrorIs(t, err, passreset.ErrNeverRequested)
}

func TestConfirmUnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Confirm(context.Background(), "nobody@x.com", "whatever", "secret2")
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestConfirmExpiryBoundary(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "a@x.com", "secret1")
	require.NoError(t, f.svc.Request(context.Background(), "a@x.com"))
	token := f.notifier.sent[0].token

	// One second short of the window: still valid.
	f.clock.Advance(passreset.TokenTTL - time.Second)
	wrong := f.svc.Confirm(context.Background(), "a@x.com", "not-the-token", "secret2")
	require.ErrorIs(t, wrong, passreset.ErrIncorrect)

	// At exactly the window: expired, pending state untouched.
	f.clock.Advance(time.Second)
	err := f.svc.Confirm(context.Background(), "a@x.com", token, "secret2")
	require.ErrorIs(t, err, passreset.ErrExpired)

	user, getErr := f.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, getErr)
	assert.True(t, user.HasPendingReset(), "expiry must not clear the pending reset")
}

func TestSecondRequestInvalidatesFirstToken(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "a@x.com", "secret1")

	require.NoError(t, f.svc.Request(context.Background(), "a@x.com"))
	first := f.notifier.sent[0].token

	require.NoError(t, f.svc.Request(context.Background(), "a@x.com"))
	second := f.notifier.sent[1].token
	require.NotEqual(t, first, second)

	err := f.svc.Confirm(context.Background(), "a@x.com", first, "secret2")
	require.ErrorIs(t, err, passreset.ErrIncorrect)

	require.NoError(t, f.svc.Confirm(context.Background(), "a@x.com", second, "secret2"))
}

func TestConfirmIncorrectTokenLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "a@x.com", "secret1")
	require.NoError(t, f.svc.Request(context.Background(), "a@x.com"))

	err := f.svc.Confirm(context.Background(), "a@x.com", "bogus", "secret2")
	require.ErrorIs(t, err, passreset.ErrIncorrect)

	user, getErr := f.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, getErr)
	assert.True(t, user.HasPendingReset())
	require.NoError(t, f.hasher.Compare(context.Background(), user.PasswordHash, "secret1"))
}
