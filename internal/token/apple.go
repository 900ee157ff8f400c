// Package token builds and decodes the client-secret JWTs this tool rotates.
package token

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AppleAudience is the fixed audience Apple requires in Sign in with Apple
// client secrets.
const AppleAudience = "https://appleid.apple.com"

// AppleMaxTTL is the longest lifetime Apple accepts for a client secret
// (15777000 seconds, roughly six months).
const AppleMaxTTL = 15777000 * time.Second

// AppleSecret describes one Sign in with Apple client secret to generate.
type AppleSecret struct {
	// TeamID is the 10-character Apple Developer team identifier (iss).
	TeamID string

	// ClientID is the Services ID the secret authenticates (sub).
	ClientID string

	// KeyID identifies the Apple-issued signing key (kid header).
	KeyID string

	// TTL is the secret's lifetime from the moment of signing.
	TTL time.Duration
}

// Validate checks the fields Apple will reject server-side, so a bad secret
// fails here instead of at the token endpoint months later.
func (s AppleSecret) Validate() error {
	if s.TeamID == "" {
		return fmt.Errorf("team ID is required")
	}
	if s.ClientID == "" {
		return fmt.Errorf("client ID is required")
	}
	if s.KeyID == "" {
		return fmt.Errorf("key ID is required")
	}
	if s.TTL <= 0 {
		return fmt.Errorf("TTL must be positive, got %s", s.TTL)
	}
	if s.TTL > AppleMaxTTL {
		return fmt.Errorf("TTL %s exceeds Apple's maximum of %s", s.TTL, AppleMaxTTL)
	}
	return nil
}

// Sign produces the ES256-signed client secret. now is injected so tests can
// pin the iat/exp claims.
func (s AppleSecret) Sign(key *ecdsa.PrivateKey, now time.Time) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		Issuer:    s.TeamID,
		Subject:   s.ClientID,
		Audience:  jwt.ClaimStrings{AppleAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		ID:        uuid.NewString(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	tok.Header["kid"] = s.KeyID

	signed, err := tok.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign client secret: %w", err)
	}
	return signed, nil
}
