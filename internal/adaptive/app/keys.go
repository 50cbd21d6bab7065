package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
)

// InitTokenCodec builds the key ring from the primary and previous secrets
// and the codec that signs with the first and verifies against all of them.
//
// Rotation is a restart: move the old primary into AUTH_TOKEN_PREVIOUS_SECRETS,
// set the new one, and drop the old entry once its tokens have expired.
func InitTokenCodec(cfg Config, logger *slog.Logger) (*jwtx.KeyRing, *jwtx.Codec, error) {
	ring, err := jwtx.NewKeyRing(cfg.TokenSecret, cfg.PreviousSecrets()...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build key ring: %w", err)
	}

	codec, err := jwtx.NewCodec(jwtx.CodecOptions{
		Keys:      ring,
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		TTL:       cfg.TokenTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build token codec: %w", err)
	}

	logger.Info("token codec ready",
		"algorithm", codec.Alg(),
		"issuer", cfg.Issuer,
		"ttl", cfg.TokenTTL,
		"keys", ring.Len(),
	)
	return ring, codec, nil
}
