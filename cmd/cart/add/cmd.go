// Package addcmd implements the `cart add` command.
package addcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/cartvault/cmd/cart/shared"
	"github.com/go-ports/cartvault/internal/cart"
	"github.com/go-ports/cartvault/internal/models"
)

// Command implements `cart add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	id       string
	title    string
	imageURL string
	price    float64
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add",
		Short: "Add a product to the cart, or bump its quantity if already present",
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.id, "id", "", "Product identifier (required)")
	f.StringVar(&c.title, "title", "", "Display title")
	f.StringVar(&c.imageURL, "image-url", "", "Product image URL")
	f.Float64Var(&c.price, "price", 0, "Unit price")

	_ = c.cmd.MarkFlagRequired("id")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	p := models.Product{
		ID:       c.id,
		Title:    c.title,
		ImageURL: c.imageURL,
		Price:    c.price,
	}
	return c.ctx.WithCart(cmd, func(ctx context.Context) error {
		store, err := cart.Use(ctx)
		if err != nil {
			return err
		}
		items, err := store.AddToCart(ctx, p)
		if err != nil {
			return err
		}
		it := items[items.Find(p.ID)]
		fmt.Fprintf(cmd.OutOrStdout(), "Added: %s (qty: %d)\n", it.ID, it.Quantity)
		return nil
	})
}
