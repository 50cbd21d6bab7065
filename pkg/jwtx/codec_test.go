package jwtx_test

import (
	"encoding/base64"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	exampleIssuer = "adaptive-auth"
	secretA       = "a-very-long-test-secret-number-one-0123456789"
	secretB       = "another-long-test-secret-number-two-987654321"
)

// fakeClock is a settable clock shared by codecs under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func newCodec(t *testing.T, clock *fakeClock, ttl time.Duration, primary string, previous ...string) *jwtx.Codec {
	t.Helper()

	ring, err := jwtx.NewKeyRing(primary, previous...)
	require.NoError(t, err)

	opts := jwtx.CodecOptions{
		Keys:   ring,
		Issuer: exampleIssuer,
		TTL:    ttl,
	}
	if clock != nil {
		opts.Now = clock.Now
	}

	codec, err := jwtx.NewCodec(opts)
	require.NoError(t, err)
	return codec
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	codec := newCodec(t, nil, 15*time.Minute, secretA)
	require.Equal(t, "HS256", codec.Alg())

	for _, role := range []jwtx.Role{jwtx.RoleStudent, jwtx.RoleInstructor, jwtx.RoleAdmin} {
		subject := strings.ToLower(string(role)) + "@example.com"

		token, issued, err := codec.Issue(subject, role)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, subject, issued.Subject)

		claims, err := codec.Verify(token)
		require.NoError(t, err)
		require.Equal(t, subject, claims.Subject)
		require.Equal(t, role, claims.Role)
		require.Equal(t, exampleIssuer, claims.Issuer)
		require.True(t, claims.ExpiresAtTime().After(claims.IssuedAtTime()))
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := newCodec(t, nil, time.Hour, secretA)
	other := newCodec(t, nil, time.Hour, secretB)

	token, _, err := issuer.Issue("ada@example.com", jwtx.RoleStudent)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
}

func TestVerifyExpiry(t *testing.T) {
	start := time.Date(2025, 11, 30, 13, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	ttl := 10 * time.Minute
	codec := newCodec(t, clock, ttl, secretA)

	token, _, err := codec.Issue("ada@example.com", jwtx.RoleStudent)
	require.NoError(t, err)

	t.Run("valid just before expiry", func(t *testing.T) {
		clock.Set(start.Add(ttl - time.Second))
		_, err := codec.Verify(token)
		require.NoError(t, err)
	})

	for _, eps := range []time.Duration{time.Second, time.Minute, 24 * time.Hour} {
		t.Run("expired after "+eps.String(), func(t *testing.T) {
			clock.Set(start.Add(ttl + eps))
			_, err := codec.Verify(token)
			require.ErrorIs(t, err, jwtx.ErrExpired)
		})
	}
}

func TestVerifyMalformed(t *testing.T) {
	codec := newCodec(t, nil, time.Hour, secretA)

	for name, raw := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"two segments": "abc.def",
		"bad base64":   "!!!.???.***",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(raw)
			require.ErrorIs(t, err, jwtx.ErrMalformed)
		})
	}
}

func TestVerifyTampered(t *testing.T) {
	codec := newCodec(t, nil, time.Hour, secretA)

	token, _, err := codec.Issue("ada@example.com", jwtx.RoleStudent)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	t.Run("payload swapped for an admin claim", func(t *testing.T) {
		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		forged := strings.Replace(string(payload), `"STUDENT"`, `"ADMIN"`, 1)
		require.NotEqual(t, string(payload), forged)

		raw := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(forged)) + "." + parts[2]
		_, err = codec.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("signature truncated", func(t *testing.T) {
		raw := parts[0] + "." + parts[1] + "." + parts[2][:len(parts[2])-4]
		_, err := codec.Verify(raw)
		require.Error(t, err)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwtx.NewClaims("ada@example.com", jwtx.RoleAdmin, exampleIssuer, time.Hour, time.Now())
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("different HMAC strength", func(t *testing.T) {
		claims := jwtx.NewClaims("ada@example.com", jwtx.RoleStudent, exampleIssuer, time.Hour, time.Now())
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secretA))
		require.NoError(t, err)

		_, err = codec.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})
}

func TestVerifyRejectsBadClaims(t *testing.T) {
	codec := newCodec(t, nil, time.Hour, secretA)
	sign := func(c jwtx.Claims) string {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secretA))
		require.NoError(t, err)
		return raw
	}
	now := time.Now()

	t.Run("unknown role", func(t *testing.T) {
		c := jwtx.NewClaims("ada@example.com", jwtx.Role("ROOT"), exampleIssuer, time.Hour, now)
		_, err := codec.Verify(sign(c))
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("missing subject", func(t *testing.T) {
		c := jwtx.NewClaims("", jwtx.RoleStudent, exampleIssuer, time.Hour, now)
		_, err := codec.Verify(sign(c))
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("missing exp", func(t *testing.T) {
		c := jwtx.NewClaims("ada@example.com", jwtx.RoleStudent, exampleIssuer, time.Hour, now)
		c.ExpiresAt = nil
		_, err := codec.Verify(sign(c))
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := jwtx.NewClaims("ada@example.com", jwtx.RoleStudent, "someone-else", time.Hour, now)
		_, err := codec.Verify(sign(c))
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}

func TestKeyRotation(t *testing.T) {
	old := newCodec(t, nil, time.Hour, secretA)
	rotated := newCodec(t, nil, time.Hour, secretB, secretA)
	retired := newCodec(t, nil, time.Hour, secretB)

	oldToken, _, err := old.Issue("ada@example.com", jwtx.RoleInstructor)
	require.NoError(t, err)

	t.Run("previous secret still verifies during rotation", func(t *testing.T) {
		claims, err := rotated.Verify(oldToken)
		require.NoError(t, err)
		require.Equal(t, jwtx.RoleInstructor, claims.Role)
	})

	t.Run("new tokens are signed with the primary", func(t *testing.T) {
		newToken, _, err := rotated.Issue("ada@example.com", jwtx.RoleInstructor)
		require.NoError(t, err)

		_, err = retired.Verify(newToken)
		require.NoError(t, err)
		_, err = old.Verify(newToken)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("dropping the old secret invalidates its tokens", func(t *testing.T) {
		_, err := retired.Verify(oldToken)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("expired token under a previous secret reports expiry", func(t *testing.T) {
		clock := &fakeClock{t: time.Now()}
		oldShort := newCodec(t, clock, time.Minute, secretA)
		rotatedShort := newCodec(t, clock, time.Minute, secretB, secretA)

		token, _, err := oldShort.Issue("ada@example.com", jwtx.RoleStudent)
		require.NoError(t, err)

		clock.Set(clock.Now().Add(2 * time.Minute))
		_, err = rotatedShort.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestNewCodecValidation(t *testing.T) {
	ring, err := jwtx.NewKeyRing(secretA)
	require.NoError(t, err)

	t.Run("requires keys", func(t *testing.T) {
		_, err := jwtx.NewCodec(jwtx.CodecOptions{TTL: time.Hour})
		require.ErrorIs(t, err, jwtx.ErrNoKey)
	})

	t.Run("rejects non-HMAC algorithms", func(t *testing.T) {
		_, err := jwtx.NewCodec(jwtx.CodecOptions{Keys: ring, Algorithm: "RS256", TTL: time.Hour})
		require.Error(t, err)
	})

	t.Run("rejects sub-second ttl", func(t *testing.T) {
		_, err := jwtx.NewCodec(jwtx.CodecOptions{Keys: ring, TTL: 500 * time.Millisecond})
		require.Error(t, err)
	})

	t.Run("supports HS512", func(t *testing.T) {
		codec, err := jwtx.NewCodec(jwtx.CodecOptions{Keys: ring, Algorithm: "HS512", TTL: time.Hour})
		require.NoError(t, err)
		require.Equal(t, "HS512", codec.Alg())

		token, _, err := codec.Issue("ada@example.com", jwtx.RoleAdmin)
		require.NoError(t, err)
		claims, err := codec.Verify(token)
		require.NoError(t, err)
		require.Equal(t, jwtx.RoleAdmin, claims.Role)
	})

	t.Run("issue rejects unknown role and empty subject", func(t *testing.T) {
		codec, err := jwtx.NewCodec(jwtx.CodecOptions{Keys: ring, TTL: time.Hour})
		require.NoError(t, err)

		_, _, err = codec.Issue("ada@example.com", jwtx.Role("ROOT"))
		require.ErrorIs(t, err, jwtx.ErrUnknownRole)

		_, _, err = codec.Issue(" ", jwtx.RoleStudent)
		require.Error(t, err)
	})
}

func TestVerifyWorkIndependentOfMatchingSecret(t *testing.T) {
	// Both a first-secret and a last-secret token pass through every key,
	// so verification cost does not reveal which secret matched.
	ring := newCodec(t, nil, time.Hour, secretA, secretB)
	first := newCodec(t, nil, time.Hour, secretA)
	last := newCodec(t, nil, time.Hour, secretB)

	t1, _, err := first.Issue("ada@example.com", jwtx.RoleStudent)
	require.NoError(t, err)
	t2, _, err := last.Issue("ada@example.com", jwtx.RoleStudent)
	require.NoError(t, err)

	_, err = ring.Verify(t1)
	require.NoError(t, err)
	_, err = ring.Verify(t2)
	require.NoError(t, err)
}
