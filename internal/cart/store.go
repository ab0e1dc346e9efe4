// Package cart implements the cart store: an ordered list of line items
// keyed by product id, persisted in full to a key-value store after every
// mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/go-ports/cartvault/internal/config"
	"github.com/go-ports/cartvault/internal/models"
	"github.com/go-ports/cartvault/internal/storage"
)

// ErrCorruptCart is returned by Load when the persisted blob cannot be decoded.
var ErrCorruptCart = errors.New("persisted cart is corrupt")

// Store holds the current cart and writes it through to storage.
type Store struct {
	storage storage.Storage
	key     string
	logger  *zap.Logger

	mu    sync.Mutex
	items models.Cart
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key the cart blob lives under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load and persist events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns an empty Store backed by st. Call Load to populate it from
// storage.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		key:     config.DefaultStorageKey,
		logger:  zap.NewNop(),
		items:   models.Cart{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key returns the storage key the cart is persisted under.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory cart with the persisted one. A missing blob
// yields an empty cart. On error the in-memory cart is left unchanged.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		return fmt.Errorf("cart.Load: %w", err)
	}

	items := models.Cart{}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return fmt.Errorf("cart.Load: %w: %w", ErrCorruptCart, err)
		}
		if items == nil {
			items = models.Cart{}
		}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Debug("cart loaded",
		zap.String("key", s.key),
		zap.Bool("found", ok),
		zap.Int("items", len(items)))
	return nil
}

// Products returns a copy of the current cart.
func (s *Store) Products() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// AddToCart increments the quantity of the item with p's id, or appends p
// with quantity 1 when the cart does not hold it yet.
func (s *Store) AddToCart(ctx context.Context, p models.Product) (models.Cart, error) {
	if err := p.Validate(); err != nil {
		return s.Products(), fmt.Errorf("cart.AddToCart: %w", err)
	}
	return s.mutate(ctx, "add", func(items models.Cart) models.Cart {
		if i := items.Find(p.ID); i >= 0 {
			items[i].Quantity++
			return items
		}
		return append(items, models.NewCartItem(p))
	})
}

// Increment adds one to the quantity of the item with the given id.
// An unknown id leaves the cart unchanged; the cart is still persisted.
func (s *Store) Increment(ctx context.Context, id string) (models.Cart, error) {
	return s.mutate(ctx, "increment", func(items models.Cart) models.Cart {
		if i := items.Find(id); i >= 0 {
			items[i].Quantity++
		}
		return items
	})
}

// Decrement subtracts one from the quantity of the item with the given id
// and drops every item whose quantity is no longer positive.
func (s *Store) Decrement(ctx context.Context, id string) (models.Cart, error) {
	return s.mutate(ctx, "decrement", func(items models.Cart) models.Cart {
		if i := items.Find(id); i >= 0 {
			items[i].Quantity--
		}
		kept := items[:0]
		for _, item := range items {
			if item.Quantity > 0 {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

// Clear empties the cart and persists the empty list.
func (s *Store) Clear(ctx context.Context) (models.Cart, error) {
	return s.mutate(ctx, "clear", func(models.Cart) models.Cart {
		return models.Cart{}
	})
}

// mutate applies fn to a copy of the cart, installs the result and writes
// it through. The new cart stays in memory even when the write fails.
func (s *Store) mutate(ctx context.Context, op string, fn func(models.Cart) models.Cart) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.items.Clone())
	if next == nil {
		next = models.Cart{}
	}
	s.items = next

	if err := s.persist(ctx, next); err != nil {
		s.logger.Warn("cart persist failed", zap.String("op", op), zap.Error(err))
		return next.Clone(), fmt.Errorf("cart: %s: %w", op, err)
	}
	s.logger.Debug("cart persisted", zap.String("op", op), zap.Int("items", len(next)))
	return next.Clone(), nil
}

// persist serializes the full list and overwrites the stored blob.
func (s *Store) persist(ctx context.Context, items models.Cart) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("persist marshal: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}
