package setup_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/cartvault/internal/checkers"
	"github.com/go-ports/cartvault/internal/setup"
)

// ---------------------------------------------------------------------------
// ConfigPath
// ---------------------------------------------------------------------------

func TestConfigPath_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		agent setup.Agent
		want  string
	}{
		{setup.Claude, "/x/.mcp.json"},
		{setup.Cursor, "/x/mcp.json"},
		{setup.Codex, "/x/config.toml"},
	}

	for _, tc := range cases {
		c.Run(string(tc.agent), func(c *qt.C) {
			got, err := setup.ConfigPath(tc.agent, "/x")
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, filepath.FromSlash(tc.want))
		})
	}
}

func TestConfigPath_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := setup.ConfigPath("vim", "/x")
	c.Assert(err, qt.ErrorIs, setup.ErrUnknownAgent)
}

// ---------------------------------------------------------------------------
// JSON agents
// ---------------------------------------------------------------------------

func TestInstallJSON_HappyPath(t *testing.T) {
	c := qt.New(t)

	for _, agent := range []setup.Agent{setup.Claude, setup.Cursor} {
		c.Run(string(agent)+" first install writes the entry", func(c *qt.C) {
			dir := t.TempDir()
			res, err := setup.Install(agent, setup.Options{ConfigDir: dir})
			c.Assert(err, qt.IsNil)
			c.Assert(res.Changed, qt.IsTrue)
			c.Assert(res.Message, qt.Contains, "Installed")

			data, err := os.ReadFile(res.Path)
			c.Assert(err, qt.IsNil)
			c.Assert(data, checkers.JSONPathEquals("$.mcpServers.cartvault.command"), "cart")
			c.Assert(data, checkers.JSONPathEquals("$.mcpServers.cartvault.type"), "stdio")
			c.Assert(data, checkers.JSONPathEquals("$.mcpServers.cartvault.args"), []any{"mcp"})
		})

		c.Run(string(agent)+" second install is idempotent", func(c *qt.C) {
			dir := t.TempDir()
			_, err := setup.Install(agent, setup.Options{ConfigDir: dir})
			c.Assert(err, qt.IsNil)
			res, err := setup.Install(agent, setup.Options{ConfigDir: dir})
			c.Assert(err, qt.IsNil)
			c.Assert(res.Changed, qt.IsFalse)
			c.Assert(res.Message, qt.Equals, "Already installed")
		})
	}

	c.Run("cart home is passed to the server", func(c *qt.C) {
		dir := t.TempDir()
		res, err := setup.Install(setup.Cursor, setup.Options{ConfigDir: dir, CartHome: "/carts/a"})
		c.Assert(err, qt.IsNil)

		data, err := os.ReadFile(res.Path)
		c.Assert(err, qt.IsNil)
		c.Assert(data, checkers.JSONPathEquals("$.mcpServers.cartvault.args"),
			[]any{"--cart-home", "/carts/a", "mcp"})
	})

	c.Run("other servers are preserved", func(c *qt.C) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mcp.json")
		c.Assert(os.WriteFile(path, []byte(`{"mcpServers":{"other":{"command":"x"}}}`), 0o600), qt.IsNil)

		_, err := setup.Install(setup.Cursor, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.IsNil)
		_, err = setup.Uninstall(setup.Cursor, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.IsNil)

		data, err := os.ReadFile(path)
		c.Assert(err, qt.IsNil)
		c.Assert(data, checkers.JSONPathEquals("$.mcpServers.other.command"), "x")
	})
}

func TestInstallJSON_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("malformed config is not overwritten", func(c *qt.C) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mcp.json")
		c.Assert(os.WriteFile(path, []byte("{not json"), 0o600), qt.IsNil)

		_, err := setup.Install(setup.Cursor, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.ErrorMatches, "setup cursor: parse .*")

		data, err := os.ReadFile(path)
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Equals, "{not json")
	})

	c.Run("unknown agent", func(c *qt.C) {
		_, err := setup.Install("vim", setup.Options{ConfigDir: t.TempDir()})
		c.Assert(err, qt.ErrorIs, setup.ErrUnknownAgent)
	})
}

func TestUninstallJSON_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("sole entry removes the file", func(c *qt.C) {
		dir := t.TempDir()
		_, err := setup.Install(setup.Claude, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.IsNil)

		res, err := setup.Uninstall(setup.Claude, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Changed, qt.IsTrue)
		c.Assert(res.Message, qt.Contains, "Removed")

		_, err = os.Stat(res.Path)
		c.Assert(os.IsNotExist(err), qt.IsTrue)
	})

	c.Run("nothing to remove when not installed", func(c *qt.C) {
		res, err := setup.Uninstall(setup.Claude, setup.Options{ConfigDir: t.TempDir()})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Message, qt.Equals, "Nothing to remove")
	})
}

// ---------------------------------------------------------------------------
// TOML agent
// ---------------------------------------------------------------------------

func TestCodex_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("install appends a table and keeps existing content", func(c *qt.C) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		c.Assert(os.WriteFile(path, []byte("model = \"o3\"\n"), 0o600), qt.IsNil)

		res, err := setup.Install(setup.Codex, setup.Options{ConfigDir: dir, CartHome: "/carts/a"})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Changed, qt.IsTrue)

		data, err := os.ReadFile(path)
		c.Assert(err, qt.IsNil)
		content := string(data)
		c.Assert(content, qt.Contains, "model = \"o3\"")
		c.Assert(content, qt.Contains, "[mcp_servers.cartvault]")
		c.Assert(content, qt.Contains, `args = ["--cart-home", "/carts/a", "mcp"]`)

		res, err = setup.Install(setup.Codex, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Message, qt.Equals, "Already installed")
	})

	c.Run("uninstall removes only the cartvault table", func(c *qt.C) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		_, err := setup.Install(setup.Codex, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.IsNil)

		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
		c.Assert(err, qt.IsNil)
		_, err = f.WriteString("\n[mcp_servers.other]\ncommand = \"x\"\n")
		c.Assert(err, qt.IsNil)
		c.Assert(f.Close(), qt.IsNil)

		res, err := setup.Uninstall(setup.Codex, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Changed, qt.IsTrue)

		data, err := os.ReadFile(path)
		c.Assert(err, qt.IsNil)
		c.Assert(strings.Contains(string(data), "mcp_servers.cartvault"), qt.IsFalse)
		c.Assert(string(data), qt.Contains, "[mcp_servers.other]")

		res, err = setup.Uninstall(setup.Codex, setup.Options{ConfigDir: dir})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Message, qt.Equals, "Nothing to remove")
	})
}
