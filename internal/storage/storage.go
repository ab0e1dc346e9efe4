// Package storage provides the device-local key-value persistence the cart
// is written through. Every backend stores opaque string values under string
// keys and treats a missing key as absent rather than as an error.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/go-ports/cartvault/internal/config"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage is an asynchronous key-value store.
type Storage interface {
	// GetItem returns the value stored under key. ok is false when the key
	// has never been written or was removed.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem overwrites the value stored under key.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend's resources.
	Close() error
}

// Open returns the backend selected by cfg.Backend. home is the cart home
// directory; the sqlite backend keeps its database file there.
func Open(ctx context.Context, cfg config.StorageConfig, home string, logger *zap.Logger) (Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case "", "sqlite":
		if err := os.MkdirAll(home, 0o755); err != nil {
			return nil, fmt.Errorf("storage.Open: create home: %w", err)
		}
		return OpenSQLite(filepath.Join(home, "cart.db"))
	case "redis":
		return OpenRedis(ctx, cfg.RedisAddr, logger)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage.Open: %w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
