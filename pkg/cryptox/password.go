package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
	ErrUnknownHash      = errors.New("cryptox: unrecognised hash format")
)

// PasswordHasher hashes new passwords with peppered Argon2id. It also verifies
// bcrypt hashes so accounts carried over from an older store can still sign
// in; those are reported by NeedsRehash.
type PasswordHasher struct {
	pepper string
}

func NewPasswordHasher(pepper string) *PasswordHasher {
	return &PasswordHasher{pepper: pepper}
}

// Hash returns a PHC-format Argon2id string including salt and parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password+h.pepper), salt, iterations, memory, parallelism, keyLength)

	return encodeArgon2(salt, hash), nil
}

func encodeArgon2(salt, hash []byte) string {
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

// absentHash has the current parameters and an all-zero key, which no
// password derives to.
var absentHash = encodeArgon2(make([]byte, saltLength), make([]byte, keyLength))

// VerifyAbsent does the work of Verify against a hash nothing matches, for
// callers that have no stored hash but must not answer faster than one that
// does. It always returns ErrPasswordMismatch.
func (h *PasswordHasher) VerifyAbsent(password string) error {
	_ = h.verifyArgon2(password, absentHash)
	return ErrPasswordMismatch
}

// Verify compares password against an Argon2id or bcrypt hash.
func (h *PasswordHasher) Verify(password, encoded string) error {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return h.verifyArgon2(password, encoded)
	case isBcrypt(encoded):
		if err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	default:
		return ErrUnknownHash
	}
}

// NeedsRehash reports whether encoded should be replaced with a fresh Hash
// after a successful Verify.
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	return !strings.HasPrefix(encoded, fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$", memory, iterations, parallelism))
}

func isBcrypt(encoded string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, p) {
			return true
		}
	}
	return false
}

func (h *PasswordHasher) verifyArgon2(password, encoded string) error {
	// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrUnknownHash
	}
	if parts[2] != "v=19" {
		return fmt.Errorf("%w: wrong version", ErrUnknownHash)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrUnknownHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrUnknownHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: hash: %v", ErrUnknownHash, err)
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
