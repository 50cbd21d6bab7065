package cryptox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreatePepper reads the pepper at path, creating it with a fresh random
// value on first run. Losing the file invalidates every argon2id hash, so it
// is written 0600 and never regenerated once present.
func LoadOrCreatePepper(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create pepper dir: %w", err)
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		pepper := strings.TrimSpace(string(b))
		if pepper == "" {
			return "", fmt.Errorf("pepper file %s is empty", path)
		}
		return pepper, nil
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read pepper: %w", err)
	}

	pepper, err := GenerateToken(TokenSize256)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(pepper), 0o600); err != nil {
		return "", fmt.Errorf("write pepper: %w", err)
	}
	return pepper, nil
}
