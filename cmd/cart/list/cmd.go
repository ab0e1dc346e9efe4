// Package listcmd implements the `cart list` command.
package listcmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/cartvault/cmd/cart/shared"
	"github.com/go-ports/cartvault/internal/cart"
	"github.com/go-ports/cartvault/internal/models"
	"github.com/go-ports/cartvault/internal/render"
)

// Command implements `cart list`.
type Command struct {
	ctx    *shared.Context
	cmd    *cobra.Command
	format string
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the items in the cart",
		RunE:    c.run,
	}
	c.cmd.Flags().StringVar(&c.format, "format", "table", "Output format: table | json | markdown")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	switch c.format {
	case "table", "json", "markdown":
	default:
		return fmt.Errorf("unknown format %q (want table, json or markdown)", c.format)
	}

	return c.ctx.WithCart(cmd, func(ctx context.Context) error {
		store, err := cart.Use(ctx)
		if err != nil {
			return err
		}
		items := store.Products()
		out := cmd.OutOrStdout()

		switch c.format {
		case "json":
			b, err := json.MarshalIndent(listResult{
				Items: items,
				Count: items.Count(),
				Total: items.Total(),
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		case "markdown":
			fmt.Fprint(out, render.Markdown(items))
		default:
			fmt.Fprint(out, render.Table(items))
		}
		return nil
	})
}

type listResult struct {
	Items models.Cart `json:"items"`
	Count int         `json:"count"`
	Total float64     `json:"total"`
}
