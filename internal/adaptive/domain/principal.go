package domain

import (
	"time"

	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
)

// Principal is an account that can sign in. Email is the token subject.
type Principal struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         jwtx.Role
	Active       bool
	TOTPSecret   *string // nil = no second factor
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasTOTP reports whether login must also present a one-time code.
func (p Principal) HasTOTP() bool {
	return p.TOTPSecret != nil && *p.TOTPSecret != ""
}
