package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const tokenRawSize = 32

// NewToken returns a cryptographically random opaque token, encoded as
// compact base64url without padding. Used for both bearer tokens and
// password-reset tokens.
func NewToken() (string, error) {
	raw := make([]byte, tokenRawSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
