package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrPrincipalNotFound   = errors.New("principal not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidTimestamp    = errors.New("invalid timestamp")
	ErrInvalidRole         = errors.New("invalid role")
	ErrAlreadyBootstrapped = errors.New("system already bootstrapped")
	ErrBootstrapDisabled   = errors.New("bootstrap disabled")
	ErrBootstrapDenied     = errors.New("unauthorized bootstrap attempt")

	// ErrDependency wraps every failure of the store underneath a service.
	// Callers must treat it as "unknown", never as "no data".
	ErrDependency = errors.New("dependency unavailable")
)

// DefaultStoreTimeout bounds a single store round trip when a service is
// built without one.
const DefaultStoreTimeout = 5 * time.Second

func dependency(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDependency, op, err)
}

// storeContext derives the per-call deadline for one store round trip.
func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func nowFunc(f func() time.Time) time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}
