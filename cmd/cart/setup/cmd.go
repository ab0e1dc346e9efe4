// Package setupcmd implements the `cart setup` command.
package setupcmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/cartvault/cmd/cart/shared"
	"github.com/go-ports/cartvault/internal/setup"
)

// Command implements `cart setup`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	configDir string
}

// New creates the setup command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:       "setup <agent>",
		Short:     "Register the cartvault MCP server with an agent (" + AgentList() + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: agentNames(),
		RunE:      c.run,
	}
	c.cmd.Flags().StringVar(&c.configDir, "config-dir", "", "Directory holding the agent config (default: the agent's global location)")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	opts := setup.Options{ConfigDir: c.configDir}
	if c.ctx.CartHome != "" {
		// Agents start the server from their own working directory.
		home, err := filepath.Abs(c.ctx.CartHome)
		if err != nil {
			return err
		}
		opts.CartHome = home
	}
	res, err := setup.Install(setup.Agent(args[0]), opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

// AgentList returns the supported agent names joined for help text.
func AgentList() string {
	return strings.Join(agentNames(), " | ")
}

func agentNames() []string {
	agents := setup.Agents()
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = string(a)
	}
	return names
}
