package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claims are the fields of a client-secret JWT worth showing a human.
// Decoding skips signature verification: the identity provider verifies, we
// only display.
type Claims struct {
	Issuer   string   `json:"iss,omitempty"`
	Subject  string   `json:"sub,omitempty"`
	Audience Audience `json:"aud,omitempty"`
	IssuedAt int64    `json:"iat,omitempty"`
	Expiry   int64    `json:"exp,omitempty"`
	ID       string   `json:"jti,omitempty"`
}

// Audience unmarshals the aud claim whether it is a string or an array.
type Audience []string

func (a *Audience) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = Audience{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*a = many
	return nil
}

// DecodeClaims extracts the claims from a JWT without verifying it.
func DecodeClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token format: expected 3 parts, got %d", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}
	return &claims, nil
}

// ExpiryTime returns the exp claim as a time.Time.
func (c *Claims) ExpiryTime() time.Time {
	return time.Unix(c.Expiry, 0)
}

// IssuedTime returns the iat claim as a time.Time.
func (c *Claims) IssuedTime() time.Time {
	return time.Unix(c.IssuedAt, 0)
}

// IsExpired reports whether the secret has already expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiryTime())
}

// ExpiresIn returns the remaining lifetime of the secret.
func (c *Claims) ExpiresIn() time.Duration {
	return time.Until(c.ExpiryTime())
}
