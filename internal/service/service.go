// Package service wires configuration, logging, storage and the cart store
// into the single shared instance a process runs against.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/go-ports/cartvault/internal/cart"
	"github.com/go-ports/cartvault/internal/config"
	"github.com/go-ports/cartvault/internal/logging"
	"github.com/go-ports/cartvault/internal/storage"
)

// Options tune New beyond what config.yaml provides.
type Options struct {
	// Backend overrides the configured storage backend when non-empty.
	Backend string
	// Logger replaces the logger built from config.
	Logger *zap.Logger
}

// Service owns the resources behind one cart store.
type Service struct {
	CartHome string
	Config   *config.CartConfig
	Logger   *zap.Logger
	Cart     *cart.Store

	storage storage.Storage
}

// New initialises a Service rooted at cartHome and loads the persisted cart.
// If cartHome is empty it is resolved via config.GetCartHome.
func New(ctx context.Context, cartHome string, opts Options) (*Service, error) {
	if cartHome == "" {
		cartHome = config.GetCartHome()
	}
	if err := os.MkdirAll(cartHome, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create cart home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(cartHome, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = logging.New(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("service.New: %w", err)
		}
	}
	logger = logger.With(zap.String("backend", cfg.Storage.Backend))

	st, err := storage.Open(ctx, cfg.Storage, cartHome, logger)
	if err != nil {
		return nil, fmt.Errorf("service.New: open storage: %w", err)
	}

	store := cart.New(st, cart.WithKey(cfg.Storage.Key), cart.WithLogger(logger))
	if err := store.Load(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("service.New: %w", err)
	}

	return &Service{
		CartHome: cartHome,
		Config:   cfg,
		Logger:   logger,
		Cart:     store,
		storage:  st,
	}, nil
}

// Provide attaches the service's cart store to ctx.
func (s *Service) Provide(ctx context.Context) context.Context {
	return cart.Provide(ctx, s.Cart)
}

// Ping checks the storage backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	_ = s.Logger.Sync()
	return s.storage.Close()
}
