package jwtx

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is used when a caller builds a Codec without a TTL.
const DefaultAccessTokenTTL = 1 * time.Hour

// Role is the flat set of roles a principal can hold.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

var ErrUnknownRole = errors.New("jwtx: unknown role")

// ParseRole is case-insensitive and rejects anything outside the closed set.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Claims are the identity claims carried by an access token. Subject is the
// principal's email, Role is copied verbatim from issuance.
type Claims struct {
	jwt.RegisteredClaims

	Role Role `json:"role"`
}

// NewClaims builds claims issued at now and expiring at now+ttl.
func NewClaims(subject string, role Role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
}

// IssuedAtTime returns iat or the zero time.
func (c Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns exp or the zero time.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// validateShape checks the parts of the claims the jwt parser doesn't know
// about. Anything failing here is reported as malformed.
func (c Claims) validateShape() error {
	if strings.TrimSpace(c.Subject) == "" {
		return errors.New("jwtx: missing subject")
	}
	if !c.Role.Valid() {
		return ErrUnknownRole
	}
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		return errors.New("jwtx: missing iat or exp")
	}
	if !c.ExpiresAt.After(c.IssuedAt.Time) {
		return errors.New("jwtx: exp not after iat")
	}
	return nil
}
