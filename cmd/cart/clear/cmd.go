// Package clearcmd implements the `cart clear` command.
package clearcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/cartvault/cmd/cart/shared"
	"github.com/go-ports/cartvault/internal/cart"
)

// Command implements `cart clear`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the clear command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the cart",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	return c.ctx.WithCart(cmd, func(ctx context.Context) error {
		store, err := cart.Use(ctx)
		if err != nil {
			return err
		}
		n := store.Products().Count()
		if _, err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared cart (%d item(s) removed)\n", n)
		return nil
	})
}
