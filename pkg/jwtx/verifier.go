package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a token and gives you back the claims if it's legit.
// The authentication gate only depends on this, so the signing scheme can
// change without touching it.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrIssuer           = errors.New("jwtx: issuer mismatch")
)

var _ Verifier = (*Codec)(nil)

// Verify parses raw, checks the signature against every secret in the ring
// (primary first) and then checks expiry, issuer and claim shape.
//
// Every secret is tried even after a match so the work done doesn't depend
// on which secret signed the token. Comparison of the MAC itself is constant
// time inside the jwt HMAC implementation.
func (c *Codec) Verify(raw string) (Claims, error) {
	var (
		found  *Claims
		result error = ErrInvalidSignature
	)

	for _, key := range c.keys.verificationKeys() {
		claims := &Claims{}
		_, err := c.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return key, nil
		})

		if found != nil {
			continue
		}
		switch {
		case err == nil:
			found, result = claims, nil
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			// try the next secret
		default:
			// The signature matched this secret (or the token never got that
			// far); what remains is about the token itself.
			found, result = claims, classify(err)
		}
	}

	if result != nil {
		return Claims{}, result
	}
	if err := found.validateShape(); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return *found, nil
}
