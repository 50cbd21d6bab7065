package jwtx

import (
	"errors"
	"strings"
)

// MinSecretLength is the shortest HMAC secret accepted, 256 bits.
const MinSecretLength = 32

var (
	ErrNoKey        = errors.New("jwtx: key ring is empty")
	ErrWeakSecret   = errors.New("jwtx: secret shorter than 32 bytes")
	ErrDuplicateKey = errors.New("jwtx: duplicate secret in key ring")
)

// KeyRing is an ordered, immutable list of HMAC secrets. The first secret
// signs new tokens; every secret in the ring verifies, which lets operators
// roll a new secret in front while tokens minted under the old one drain.
//
// Secret bytes are never exposed outside the package, and KeyRing has no
// String/MarshalJSON so it can't leak through a log line by accident.
type KeyRing struct {
	keys [][]byte
}

// NewKeyRing builds a ring from the primary secret followed by any previous
// secrets still accepted for verification. Blank previous entries are skipped.
func NewKeyRing(primary string, previous ...string) (*KeyRing, error) {
	if primary == "" {
		return nil, ErrNoKey
	}

	ring := &KeyRing{}
	seen := make(map[string]struct{}, len(previous)+1)
	for i, s := range append([]string{primary}, previous...) {
		if i > 0 {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
		}
		if len(s) < MinSecretLength {
			return nil, ErrWeakSecret
		}
		if _, dup := seen[s]; dup {
			return nil, ErrDuplicateKey
		}
		seen[s] = struct{}{}
		ring.keys = append(ring.keys, []byte(s))
	}
	return ring, nil
}

// Len returns the number of secrets in the ring.
func (k *KeyRing) Len() int {
	if k == nil {
		return 0
	}
	return len(k.keys)
}

// IsReady returns true if the ring can sign.
func (k *KeyRing) IsReady() bool { return k.Len() > 0 }

func (k *KeyRing) signingKey() []byte {
	return k.keys[0]
}

// verificationKeys returns a copy so the parser can't alias ring storage.
func (k *KeyRing) verificationKeys() [][]byte {
	out := make([][]byte, len(k.keys))
	copy(out, k.keys)
	return out
}
