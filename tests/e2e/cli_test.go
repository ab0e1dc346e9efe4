// Package e2e_test contains end-to-end tests that exercise the full cart CLI
// by importing the root command and running it in-process with a temporary
// cart home. Output is captured via cobra's SetOut so tests can run
// concurrently without affecting os.Stdout.
package e2e_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	rootcmd "github.com/go-ports/cartvault/cmd/cart/root"
	"github.com/go-ports/cartvault/internal/checkers"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// runCmd executes the root command with the provided args and returns the
// captured stdout output along with any execution error.
func runCmd(t testing.TB, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&buf)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	execErr := root.ExecuteContext(context.Background())

	return buf.String(), execErr
}

// runIn runs a command against the cart rooted at home.
func runIn(t testing.TB, home string, args ...string) (string, error) {
	t.Helper()
	return runCmd(t, append([]string{"--cart-home", home}, args...)...)
}

// mustRunIn is runIn that fails the test on error.
func mustRunIn(c *qt.C, home string, args ...string) string {
	c.TB.Helper()
	out, err := runIn(c.TB, home, args...)
	c.Assert(err, qt.IsNil, qt.Commentf("output: %s", out))
	return out
}

func addProduct(c *qt.C, home, id, price string) {
	c.TB.Helper()
	mustRunIn(c, home, "add", "--id", id, "--title", "Product "+id,
		"--image-url", "https://img.example/"+id+".png", "--price", price)
}

// ---------------------------------------------------------------------------
// Help
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "cartvault")
	c.Assert(out, qt.Contains, "increment")
	c.Assert(out, qt.Contains, "decrement")
}

// ---------------------------------------------------------------------------
// Init
// ---------------------------------------------------------------------------

func TestInit_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("fresh home", func(c *qt.C) {
		home := t.TempDir()
		out, err := runIn(t, home, "init")
		c.Assert(err, qt.IsNil)
		c.Assert(out, qt.Contains, "Cart initialized")
		c.Assert(out, qt.Contains, home)

		_, err = os.Stat(filepath.Join(home, "cart.db"))
		c.Assert(err, qt.IsNil)
	})

	c.Run("existing cart is kept", func(c *qt.C) {
		home := t.TempDir()
		addProduct(c, home, "p1", "10")

		out := mustRunIn(c, home, "init")
		c.Assert(out, qt.Contains, "already holds 1 item(s)")

		out = mustRunIn(c, home, "list", "--format", "json")
		c.Assert(out, checkers.JSONPathEquals("$.count"), float64(1))
	})
}

// ---------------------------------------------------------------------------
// Add
// ---------------------------------------------------------------------------

func TestAdd_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	out := mustRunIn(c, home, "add", "--id", "p1", "--title", "Shoe", "--price", "10")
	c.Assert(out, qt.Contains, "Added: p1 (qty: 1)")

	out = mustRunIn(c, home, "add", "--id", "p1", "--title", "Shoe", "--price", "10")
	c.Assert(out, qt.Contains, "Added: p1 (qty: 2)")

	out = mustRunIn(c, home, "list", "--format", "json")
	c.Assert(out, checkers.JSONPathEquals("$.items[0].quantity"), float64(2))
	c.Assert(out, checkers.JSONPathEquals("$.total"), float64(20))
}

func TestAdd_FailurePath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	c.Run("missing required --id flag returns error", func(c *qt.C) {
		_, err := runIn(t, home, "add", "--title", "Shoe")
		c.Assert(err, qt.IsNotNil)
	})

	c.Run("blank id is rejected", func(c *qt.C) {
		_, err := runIn(t, home, "add", "--id", "  ")
		c.Assert(err, qt.ErrorMatches, ".*invalid product: id is required")
	})

	c.Run("negative price is rejected", func(c *qt.C) {
		_, err := runIn(t, home, "add", "--id", "p1", "--price", "-1")
		c.Assert(err, qt.ErrorMatches, ".*price must be a non-negative number.*")
	})

	c.Run("rejected adds leave the cart empty", func(c *qt.C) {
		out := mustRunIn(c, home, "list")
		c.Assert(out, qt.Equals, "Cart is empty.\n")
	})
}

// ---------------------------------------------------------------------------
// Increment / Decrement
// ---------------------------------------------------------------------------

func TestIncrementDecrement_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	addProduct(c, home, "p1", "10")
	addProduct(c, home, "p2", "2.5")

	out := mustRunIn(c, home, "increment", "p1")
	c.Assert(out, qt.Contains, "p1: qty 2")

	out = mustRunIn(c, home, "decrement", "p1")
	c.Assert(out, qt.Contains, "p1: qty 1")

	out = mustRunIn(c, home, "dec", "p2")
	c.Assert(out, qt.Contains, "Removed p2 from the cart")

	out = mustRunIn(c, home, "list", "--format", "json")
	c.Assert(out, checkers.JSONPathEquals("$.items[*].id"), []any{"p1"})
	c.Assert(out, checkers.JSONPathEquals("$.count"), float64(1))
}

func TestIncrementDecrement_FailurePath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	addProduct(c, home, "p1", "10")

	c.Run("unknown id is a no-op", func(c *qt.C) {
		out := mustRunIn(c, home, "increment", "ghost")
		c.Assert(out, qt.Contains, "No cart item found for ghost")
		out = mustRunIn(c, home, "decrement", "ghost")
		c.Assert(out, qt.Contains, "No cart item found for ghost")

		out = mustRunIn(c, home, "list", "--format", "json")
		c.Assert(out, checkers.JSONPathEquals("$.items[0].quantity"), float64(1))
	})

	c.Run("missing id argument returns error", func(c *qt.C) {
		_, err := runIn(t, home, "increment")
		c.Assert(err, qt.IsNotNil)
		_, err = runIn(t, home, "decrement")
		c.Assert(err, qt.IsNotNil)
	})
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestList_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	addProduct(c, home, "p1", "10")
	addProduct(c, home, "p2", "2.5")
	addProduct(c, home, "p1", "10")

	c.Run("table", func(c *qt.C) {
		out := mustRunIn(c, home, "list")
		c.Assert(out, qt.Matches, `(?s)ID\s+TITLE.*p1\s+Product p1\s+2.*p2\s+Product p2\s+1.*`)
		c.Assert(out, qt.Contains, "3 item(s), total 22.50")
	})

	c.Run("json", func(c *qt.C) {
		out := mustRunIn(c, home, "list", "--format", "json")
		c.Assert(out, checkers.JSONPathEquals("$.items[*].id"), []any{"p1", "p2"})
		c.Assert(out, checkers.JSONPathEquals("$.items[1].image_url"), "https://img.example/p2.png")
		c.Assert(out, checkers.JSONPathEquals("$.count"), float64(3))
		c.Assert(out, checkers.JSONPathEquals("$.total"), 22.5)
	})

	c.Run("markdown", func(c *qt.C) {
		out := mustRunIn(c, home, "list", "--format", "markdown")
		c.Assert(out, qt.Contains, "| ![](https://img.example/p1.png) | Product p1 | 2 | 10.00 | 20.00 |")
		c.Assert(out, qt.Contains, "| | **Total** | **3** | | **22.50** |")
	})
}

func TestList_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := runIn(t, t.TempDir(), "list", "--format", "xml")
	c.Assert(err, qt.ErrorMatches, `unknown format "xml".*`)
}

// ---------------------------------------------------------------------------
// Clear
// ---------------------------------------------------------------------------

func TestClear_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	addProduct(c, home, "p1", "10")
	addProduct(c, home, "p1", "10")

	out := mustRunIn(c, home, "clear")
	c.Assert(out, qt.Contains, "2 item(s) removed")

	out = mustRunIn(c, home, "list")
	c.Assert(out, qt.Equals, "Cart is empty.\n")
}

// ---------------------------------------------------------------------------
// Storage backends
// ---------------------------------------------------------------------------

func TestStorage_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("memory backend does not outlive the process", func(c *qt.C) {
		home := t.TempDir()
		mustRunIn(c, home, "--storage", "memory", "add", "--id", "p1")
		out := mustRunIn(c, home, "--storage", "memory", "list")
		c.Assert(out, qt.Equals, "Cart is empty.\n")
	})

	c.Run("storage key from config.yaml", func(c *qt.C) {
		home := t.TempDir()
		addProduct(c, home, "p1", "1")

		cfg := "storage:\n  key: other:cart\n"
		c.Assert(os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600), qt.IsNil)
		out := mustRunIn(c, home, "list")
		c.Assert(out, qt.Equals, "Cart is empty.\n")
	})
}

func TestStorage_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := runIn(t, t.TempDir(), "--storage", "tape", "list")
	c.Assert(err, qt.ErrorMatches, ".*unknown storage backend.*")
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfig_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("show reports defaults and flag source", func(c *qt.C) {
		home := t.TempDir()
		out := mustRunIn(c, home, "config")
		c.Assert(out, qt.Contains, "backend: sqlite")
		c.Assert(out, qt.Contains, "@GoMarketplace:products")
		c.Assert(out, qt.Contains, "cart_home_source: flag")
	})

	c.Run("init writes a template once", func(c *qt.C) {
		home := t.TempDir()
		out := mustRunIn(c, home, "config", "init")
		c.Assert(out, qt.Contains, "Created")

		out = mustRunIn(c, home, "config", "init")
		c.Assert(out, qt.Contains, "Config already exists")

		out = mustRunIn(c, home, "config", "init", "--force")
		c.Assert(out, qt.Contains, "Created")

		out = mustRunIn(c, home, "config")
		c.Assert(out, qt.Contains, "level: warn")
	})
}

// ---------------------------------------------------------------------------
// Version
// ---------------------------------------------------------------------------

func TestVersion_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "version")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "cartvault dev")
}

// ---------------------------------------------------------------------------
// Setup / Uninstall
// ---------------------------------------------------------------------------

func TestSetup_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	agentDir := t.TempDir()

	out := mustRunIn(c, home, "setup", "cursor", "--config-dir", agentDir)
	c.Assert(out, qt.Contains, "Installed: cartvault")

	data, err := os.ReadFile(filepath.Join(agentDir, "mcp.json"))
	c.Assert(err, qt.IsNil)
	c.Assert(data, checkers.JSONPathEquals("$.mcpServers.cartvault.args"), []any{"--cart-home", home, "mcp"})

	out = mustRunIn(c, home, "uninstall", "cursor", "--config-dir", agentDir)
	c.Assert(out, qt.Contains, "Removed: cartvault")
}

func TestSetup_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := runCmd(t, "setup", "vim", "--config-dir", t.TempDir())
	c.Assert(err, qt.ErrorMatches, `unknown agent: "vim"`)
}
