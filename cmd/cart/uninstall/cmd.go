// Package uninstallcmd implements the `cart uninstall` command.
package uninstallcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	setupcmd "github.com/go-ports/cartvault/cmd/cart/setup"
	"github.com/go-ports/cartvault/internal/setup"
)

// Command implements `cart uninstall`.
type Command struct {
	cmd *cobra.Command

	configDir string
}

// New creates the uninstall command.
func New() *Command {
	c := &Command{}
	c.cmd = &cobra.Command{
		Use:   "uninstall <agent>",
		Short: "Remove the cartvault MCP server from an agent (" + setupcmd.AgentList() + ")",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.configDir, "config-dir", "", "Directory holding the agent config (default: the agent's global location)")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	res, err := setup.Uninstall(setup.Agent(args[0]), setup.Options{ConfigDir: c.configDir})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
