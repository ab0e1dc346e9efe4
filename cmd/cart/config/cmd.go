// Package configcmd implements the `cart config` command group.
package configcmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/cartvault/cmd/cart/shared"
	"github.com/go-ports/cartvault/internal/config"
)

const configTemplate = `# cartvault configuration

# Where the cart is persisted.
storage:
  backend: sqlite               # sqlite | redis | memory
  key: "@GoMarketplace:products"
  # redis_addr: localhost:6379  # host:port or redis://[:password@]host:port/db

# Diagnostics are written to stderr.
log:
  level: warn                   # debug | info | warn | error
`

// Command implements `cart config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newSetHome(),
		newClearHome(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	home, source := config.ResolveCartHome()
	if c.ctx.CartHome != "" {
		home = c.ctx.CartHome
		source = "flag"
	}
	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return err
	}
	if c.ctx.Backend != "" {
		cfg.Storage.Backend = c.ctx.Backend
	}
	data := map[string]any{
		"storage": map[string]any{
			"backend":    cfg.Storage.Backend,
			"key":        cfg.Storage.Key,
			"redis_addr": redactPassword(cfg.Storage.RedisAddr),
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
		"cart_home":        home,
		"cart_home_source": source,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := ctx.CartHome
			if home == "" {
				home = config.GetCartHome()
			}
			cfgPath := filepath.Join(home, "config.yaml")
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			fmt.Fprintln(out, "Edit the file to choose a storage backend.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-home
// ---------------------------------------------------------------------------

func newSetHome() *cobra.Command {
	return &cobra.Command{
		Use:   "set-home <path>",
		Short: "Persist cart home location (used when CART_HOME is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedCartHome(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(resolved, 0o755); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted cart home: %s\n", resolved)
			fmt.Fprintln(out, "Override anytime with CART_HOME.")
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-home
// ---------------------------------------------------------------------------

func newClearHome() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-home",
		Short: "Remove persisted cart home location from global config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedCartHome()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted cart home setting.")
			} else {
				fmt.Fprintln(out, "No persisted cart home setting was found.")
			}
			return nil
		},
	}
}

// redactPassword hides the password of a redis:// URL. Plain host:port
// addresses are returned unchanged.
func redactPassword(addr string) string {
	u, err := url.Parse(addr)
	if err != nil || u.User == nil {
		return addr
	}
	if _, ok := u.User.Password(); !ok {
		return addr
	}
	u.User = url.UserPassword(u.User.Username(), "redacted")
	return u.String()
}
