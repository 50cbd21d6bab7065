package jwtx

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can mint identity tokens.
type Signer interface {
	Alg() string
	Issue(subject string, role Role) (string, Claims, error)
}

var _ Signer = (*Codec)(nil)

// Issue signs a token for subject/role with iat=now and exp=now+TTL using
// the ring's primary secret. The returned claims are exactly what was signed.
func (c *Codec) Issue(subject string, role Role) (string, Claims, error) {
	if strings.TrimSpace(subject) == "" {
		return "", Claims{}, errors.New("jwtx: empty subject")
	}
	if !role.Valid() {
		return "", Claims{}, ErrUnknownRole
	}

	claims := NewClaims(subject, role, c.issuer, c.ttl, c.now().UTC())

	t := jwt.NewWithClaims(c.method, claims)
	signed, err := t.SignedString(c.keys.signingKey())
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}
