// Package decrementcmd implements the `cart decrement` command.
package decrementcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/cartvault/cmd/cart/shared"
	"github.com/go-ports/cartvault/internal/cart"
)

// Command implements `cart decrement`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the decrement command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "decrement <product-id>",
		Aliases: []string{"dec"},
		Short:   "Decrease the quantity of a cart item by one, removing it at zero",
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
		existed := store.Products().Find(id) >= 0
		items, err := store.Decrement(ctx, id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch i := items.Find(id); {
		case i >= 0:
			fmt.Fprintf(out, "%s: qty %d\n", id, items[i].Quantity)
		case existed:
			fmt.Fprintf(out, "Removed %s from the cart\n", id)
		default:
			fmt.Fprintf(out, "No cart item found for %s\n", id)
		}
		return nil
	})
}
