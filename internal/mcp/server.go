// Package mcp provides the stdio MCP server exposing the cart to agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/cartvault/internal/buildinfo"
	"github.com/go-ports/cartvault/internal/cart"
	"github.com/go-ports/cartvault/internal/models"
	"github.com/go-ports/cartvault/internal/service"
)

const listDescription = `List the items currently in the shopping cart, in the order they were added, with the unit count and total price.`

const addDescription = `Add a product to the shopping cart. If the product is already in the cart its quantity goes up by one; otherwise it is added with quantity 1.`

// NewServer creates and registers all cart tools on a new MCP server.
// The handlers resolve the store from their request context, so ctx must
// come from cart.Provide (service.Service.Provide).
func NewServer(ctx context.Context) (*mcpserver.MCPServer, error) {
	store, err := cart.Use(ctx)
	if err != nil {
		return nil, fmt.Errorf("mcp: %w", err)
	}
	s := mcpserver.NewMCPServer("cartvault", buildinfo.Version,
		mcpserver.WithToolCapabilities(false),
	)
	registerTools(s, store)
	return s, nil
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(ctx context.Context, cartHome, backend string) error {
	svc, err := service.New(ctx, cartHome, service.Options{Backend: backend})
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	s, err := NewServer(svc.Provide(ctx))
	if err != nil {
		return err
	}
	return mcpserver.ServeStdio(s)
}

// registerTools wires the four cart tools into the server.
func registerTools(s *mcpserver.MCPServer, store *cart.Store) {
	s.AddTool(mcp.NewTool("cart_list",
		mcp.WithDescription(listDescription),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return cartResult(store.Products())
	})

	s.AddTool(mcp.NewTool("cart_add",
		mcp.WithDescription(addDescription),
		mcp.WithString("id",
			mcp.Description("Product identifier."),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Display title."),
		),
		mcp.WithString("image_url",
			mcp.Description("Product image URL."),
		),
		mcp.WithNumber("price",
			mcp.Description("Unit price."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(ctx, store, req)
	})

	s.AddTool(mcp.NewTool("cart_increment",
		mcp.WithDescription("Increase the quantity of a cart item by one."),
		mcp.WithString("id", mcp.Description("Product identifier."), mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStep(ctx, req, store.Increment)
	})

	s.AddTool(mcp.NewTool("cart_decrement",
		mcp.WithDescription("Decrease the quantity of a cart item by one. The item is removed when its quantity reaches zero."),
		mcp.WithString("id", mcp.Description("Product identifier."), mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStep(ctx, req, store.Decrement)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleAdd(ctx context.Context, store *cart.Store, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := models.Product{
		ID:       req.GetString("id", ""),
		Title:    req.GetString("title", ""),
		ImageURL: req.GetString("image_url", ""),
		Price:    req.GetFloat("price", 0),
	}
	items, err := store.AddToCart(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return cartResult(items)
}

func handleStep(
	ctx context.Context,
	req mcp.CallToolRequest,
	step func(context.Context, string) (models.Cart, error),
) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := step(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return cartResult(items)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func cartResult(items models.Cart) (*mcp.CallToolResult, error) {
	if items == nil {
		items = models.Cart{}
	}
	return jsonResult(map[string]any{
		"items": items,
		"count": items.Count(),
		"total": roundTwo(items.Total()),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// roundTwo rounds f to 2 decimal places.
func roundTwo(f float64) float64 {
	return math.Round(f*100) / 100
}
