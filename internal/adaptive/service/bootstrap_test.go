package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without a token", func(t *testing.T) {
		svc := &service.BootstrapService{Store: newStore(t), Hasher: newHasher()}
		require.False(t, svc.Enabled())
		_, err := svc.Bootstrap(ctx, "", "root@example.com", "Root", password)
		require.ErrorIs(t, err, service.ErrBootstrapDisabled)
	})

	t.Run("wrong token", func(t *testing.T) {
		svc := &service.BootstrapService{Store: newStore(t), Hasher: newHasher(), Token: "s3cret"}
		_, err := svc.Bootstrap(ctx, "guess", "root@example.com", "Root", password)
		require.ErrorIs(t, err, service.ErrBootstrapDenied)
	})

	t.Run("creates the first admin once", func(t *testing.T) {
		st := newStore(t)
		svc := &service.BootstrapService{Store: st, Hasher: newHasher(), Token: "s3cret"}

		done, err := svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.False(t, done)

		admin, err := svc.Bootstrap(ctx, "s3cret", "root@example.com", "Root", password)
		require.NoError(t, err)
		require.Equal(t, jwtx.RoleAdmin, admin.Role)

		done, err = svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.True(t, done)

		_, err = svc.Bootstrap(ctx, "s3cret", "other@example.com", "Other", password)
		require.ErrorIs(t, err, service.ErrAlreadyBootstrapped)
	})

	t.Run("concurrent attempts create one admin", func(t *testing.T) {
		st := newStore(t)
		svc := &service.BootstrapService{Store: st, Hasher: newHasher(), Token: "s3cret"}

		const attempts = 4
		errs := make(chan error, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Bootstrap(ctx, "s3cret", "root"+string(rune('a'+i))+"@example.com", "Root", password)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var ok int
		for err := range errs {
			if err == nil {
				ok++
				continue
			}
			require.ErrorIs(t, err, service.ErrAlreadyBootstrapped)
		}
		require.Equal(t, 1, ok)
	})
}
