// Package shared holds the context passed to all CLI commands.
package shared

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/go-ports/cartvault/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// CartHome overrides the cart home directory.
	// When empty, resolution falls through to CART_HOME env → persisted config → ~/.cart.
	CartHome string
	// Backend overrides the storage backend from config.yaml.
	Backend string
}

// WithCart opens the cart service, provides its store on the command's
// context and runs fn with that context. The service is closed when fn
// returns.
func (c *Context) WithCart(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	svc, err := service.New(cmd.Context(), c.CartHome, service.Options{Backend: c.Backend})
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc.Provide(cmd.Context()))
}
