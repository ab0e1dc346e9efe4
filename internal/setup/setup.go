// Package setup registers and removes the cartvault MCP server in the
// configuration files of supported coding agents.
package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ServerName is the key the MCP server is registered under.
const ServerName = "cartvault"

// ErrUnknownAgent is returned for agent names Install and Uninstall do not support.
var ErrUnknownAgent = errors.New("unknown agent")

// Agent identifies a supported coding agent.
type Agent string

const (
	Claude Agent = "claude"
	Cursor Agent = "cursor"
	Codex  Agent = "codex"
)

// Agents lists the supported agents in display order.
func Agents() []Agent { return []Agent{Claude, Cursor, Codex} }

// Options control where and how the server entry is written.
type Options struct {
	// ConfigDir is the directory holding the agent's config file.
	// Empty selects the agent's global location under the user's home.
	ConfigDir string
	// CartHome, when set, is passed to the server as --cart-home.
	CartHome string
}

// Result reports what Install or Uninstall changed.
type Result struct {
	Changed bool
	Path    string
	Message string
}

// ConfigPath returns the config file the entry for agent lives in.
func ConfigPath(agent Agent, dir string) (string, error) {
	home, _ := os.UserHomeDir()
	switch agent {
	case Claude:
		if dir == "" {
			return filepath.Join(home, ".claude.json"), nil
		}
		return filepath.Join(dir, ".mcp.json"), nil
	case Cursor:
		if dir == "" {
			dir = filepath.Join(home, ".cursor")
		}
		return filepath.Join(dir, "mcp.json"), nil
	case Codex:
		if dir == "" {
			dir = filepath.Join(home, ".codex")
		}
		return filepath.Join(dir, "config.toml"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAgent, agent)
	}
}

// Install adds the server entry for agent. An existing entry is left as is.
func Install(agent Agent, opts Options) (Result, error) {
	path, err := ConfigPath(agent, opts.ConfigDir)
	if err != nil {
		return Result{}, err
	}
	var added bool
	if agent == Codex {
		added, err = appendTOMLSection(path, serverArgs(opts.CartHome))
	} else {
		added, err = installMCPServer(path, serverArgs(opts.CartHome))
	}
	if err != nil {
		return Result{}, fmt.Errorf("setup %s: %w", agent, err)
	}
	if !added {
		return Result{Path: path, Message: "Already installed"}, nil
	}
	return Result{Changed: true, Path: path, Message: "Installed: " + ServerName + " in " + path}, nil
}

// Uninstall removes the server entry for agent, deleting JSON config files
// that end up empty.
func Uninstall(agent Agent, opts Options) (Result, error) {
	path, err := ConfigPath(agent, opts.ConfigDir)
	if err != nil {
		return Result{}, err
	}
	var removed bool
	if agent == Codex {
		removed, err = removeTOMLSection(path)
	} else {
		removed, err = uninstallMCPServer(path)
	}
	if err != nil {
		return Result{}, fmt.Errorf("uninstall %s: %w", agent, err)
	}
	if !removed {
		return Result{Path: path, Message: "Nothing to remove"}, nil
	}
	return Result{Changed: true, Path: path, Message: "Removed: " + ServerName + " from " + path}, nil
}

func serverArgs(cartHome string) []string {
	if cartHome == "" {
		return []string{"mcp"}
	}
	return []string{"--cart-home", cartHome, "mcp"}
}

// ---------------------------------------------------------------------------
// JSON mcpServers (Claude, Cursor)
// ---------------------------------------------------------------------------

func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

func writeJSON(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent config files do not contain secrets
}

func installMCPServer(path string, args []string) (bool, error) {
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, _ := data["mcpServers"].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
		data["mcpServers"] = servers
	}
	if _, exists := servers[ServerName]; exists {
		return false, nil
	}
	anyArgs := make([]any, len(args))
	for i, a := range args {
		anyArgs[i] = a
	}
	servers[ServerName] = map[string]any{
		"type":    "stdio",
		"command": "cart",
		"args":    anyArgs,
	}
	return true, writeJSON(path, data)
}

func uninstallMCPServer(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, _ := data["mcpServers"].(map[string]any)
	if _, exists := servers[ServerName]; !exists {
		return false, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(data, "mcpServers")
	}
	if len(data) == 0 {
		return true, os.Remove(path)
	}
	return true, writeJSON(path, data)
}

// ---------------------------------------------------------------------------
// TOML mcp_servers table (Codex). Text based; only the cartvault table is
// ever touched.
// ---------------------------------------------------------------------------

const tomlHeader = "[mcp_servers." + ServerName + "]"

func hasTOMLSection(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == tomlHeader {
			return true
		}
	}
	return false
}

func appendTOMLSection(path string, args []string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if hasTOMLSection(string(existing)) {
		return false, nil
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = strconv.Quote(a)
	}
	section := fmt.Sprintf("\n%s\ncommand = \"cart\"\nargs = [%s]\n", tomlHeader, strings.Join(quoted, ", "))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if _, err := f.WriteString(section); err != nil {
		return false, err
	}
	return true, nil
}

func removeTOMLSection(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	content := string(data)
	if !hasTOMLSection(content) {
		return false, nil
	}
	// Drop the header and its key-value pairs up to the next table or EOF.
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == tomlHeader {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(trimmed, "[") {
			inSection = false
		}
		if !inSection {
			kept = append(kept, line)
		}
	}
	cleaned := strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
	return true, os.WriteFile(path, []byte(cleaned), 0o644) // #nosec G306 -- agent TOML config is not a sensitive credential file
}
