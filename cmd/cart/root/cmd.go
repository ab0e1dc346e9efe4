// Package rootcmd wires the root cobra.Command for the cart CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/cartvault/cmd/cart/add"
	clearcmd "github.com/go-ports/cartvault/cmd/cart/clear"
	configcmd "github.com/go-ports/cartvault/cmd/cart/config"
	decrementcmd "github.com/go-ports/cartvault/cmd/cart/decrement"
	incrementcmd "github.com/go-ports/cartvault/cmd/cart/increment"
	initcmd "github.com/go-ports/cartvault/cmd/cart/init"
	listcmd "github.com/go-ports/cartvault/cmd/cart/list"
	mcpcmd "github.com/go-ports/cartvault/cmd/cart/mcp"
	setupcmd "github.com/go-ports/cartvault/cmd/cart/setup"
	"github.com/go-ports/cartvault/cmd/cart/shared"
	uninstallcmd "github.com/go-ports/cartvault/cmd/cart/uninstall"
	versioncmd "github.com/go-ports/cartvault/cmd/cart/version"
)

// New creates and returns the root cobra.Command for the cart CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "cart",
		Short:         "cartvault: a local shopping cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.CartHome, "cart-home", "",
		"Override cart home directory (default: $CART_HOME env → persisted config → ~/.cart)",
	)
	root.PersistentFlags().StringVar(
		&ctx.Backend, "storage", "",
		"Override storage backend: sqlite | redis | memory",
	)

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		addcmd.New(ctx).Cmd(),
		incrementcmd.New(ctx).Cmd(),
		decrementcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		clearcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New().Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New().Cmd(),
	)

	return root
}
