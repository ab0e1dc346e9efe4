package cart

import (
	"context"
	"errors"
)

// ErrNoProvider is returned by Use when ctx carries no Store.
var ErrNoProvider = errors.New("cart: Use must be called within a Provider")

type providerKey struct{}

// Provide returns a copy of ctx that carries s. Every consumer reached
// through the returned context shares the same Store.
func Provide(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, providerKey{}, s)
}

// Use returns the Store provided on ctx, or ErrNoProvider.
func Use(ctx context.Context) (*Store, error) {
	if ctx == nil {
		return nil, ErrNoProvider
	}
	s, ok := ctx.Value(providerKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoProvider
	}
	return s, nil
}

// MustUse is like Use but panics with ErrNoProvider.
func MustUse(ctx context.Context) *Store {
	s, err := Use(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
