package auth

import (
	"net/netip"
	"time"

	"github.com/google/uuid"
)

// User is a domain entity representing an account holder.
//
// Token is the opaque bearer token handed out on the first successful
// authentication and reused on every one after it; it stays empty until then.
// ResetToken and ResetSentAt describe a pending password reset and are
// either both set or both absent.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Token        string
	ResetToken   string
	ResetSentAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPendingReset reports whether a password reset has been requested and
// not yet consumed.
func (u User) HasPendingReset() bool {
	return u.ResetToken != "" && u.ResetSentAt != nil
}

// AuthEvent is an immutable audit record of one authentication attempt
// against a known account. It references the user, it does not own it.
type AuthEvent struct {
	ID        uuid.UUID
	IPAddress netip.Addr
	UserID    uuid.UUID
	Success   bool
	CreatedAt time.Time
}
