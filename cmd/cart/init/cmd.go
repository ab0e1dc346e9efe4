// Package initcmd implements the `cart init` command.
package initcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/cartvault/cmd/cart/shared"
	"github.com/go-ports/cartvault/internal/cart"
	"github.com/go-ports/cartvault/internal/config"
)

// Command implements `cart init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the cart home and storage",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home := c.ctx.CartHome
	if home == "" {
		home = config.GetCartHome()
	}
	return c.ctx.WithCart(cmd, func(ctx context.Context) error {
		store, err := cart.Use(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if n := len(store.Products()); n > 0 {
			fmt.Fprintf(out, "Cart at %s already holds %d item(s)\n", home, n)
			return nil
		}
		if _, err := store.Clear(ctx); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		fmt.Fprintf(out, "Cart initialized at %s\n", home)
		return nil
	})
}
