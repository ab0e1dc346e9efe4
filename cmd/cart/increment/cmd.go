// Package incrementcmd implements the `cart increment` command.
package incrementcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/cartvault/cmd/cart/shared"
	"github.com/go-ports/cartvault/internal/cart"
)

// Command implements `cart increment`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the increment command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "increment <product-id>",
		Aliases: []string{"inc"},
		Short:   "Increase the quantity of a cart item by one",
		Args:    cobra.ExactArgs(1),
		RunE:    c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	id := args[0]
	return c.ctx.WithCart(cmd, func(ctx context.Context) error {
		store, err := cart.Use(ctx)
		if err != nil {
			return err
		}
		items, err := store.Increment(ctx, id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if i := items.Find(id); i >= 0 {
			fmt.Fprintf(out, "%s: qty %d\n", id, items[i].Quantity)
		} else {
			fmt.Fprintf(out, "No cart item found for %s\n", id)
		}
		return nil
	})
}
