package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec issues and verifies HMAC-signed identity tokens. It is safe for
// concurrent use; all of its state is fixed at construction.
type Codec struct {
	keys   *KeyRing
	method *jwt.SigningMethodHMAC
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// CodecOptions configures NewCodec.
type CodecOptions struct {
	Keys *KeyRing

	// Algorithm is one of HS256, HS384, HS512. Empty means HS256.
	Algorithm string

	// Issuer is stamped into iss and enforced on verify. Empty disables both.
	Issuer string

	// TTL is the token lifetime. Token times have second precision, so
	// anything under a second is rejected.
	TTL time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// NewCodec validates opts and returns a ready Codec.
func NewCodec(opts CodecOptions) (*Codec, error) {
	if !opts.Keys.IsReady() {
		return nil, ErrNoKey
	}

	alg := opts.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultAccessTokenTTL
	}
	if ttl < time.Second {
		return nil, fmt.Errorf("jwtx: ttl %s is below one second", ttl)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Codec{
		keys:   opts.Keys,
		method: method,
		issuer: opts.Issuer,
		ttl:    ttl,
		now:    now,
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}
	c.parser = jwt.NewParser(parserOpts...)

	return c, nil
}

// Alg returns the JWS algorithm name.
func (c *Codec) Alg() string { return c.method.Alg() }

// TTL returns the lifetime given to issued tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Keys exposes the ring for readiness checks.
func (c *Codec) Keys() *KeyRing { return c.keys }

// classify folds jwt parser errors into the package's small error set.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
