// Package config handles configuration loading and cart home resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultStorageKey is the key the cart blob is stored under.
const DefaultStorageKey = "@GoMarketplace:products"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend   string `yaml:"backend"` // "sqlite" | "redis" | "memory"
	Key       string `yaml:"key"`
	RedisAddr string `yaml:"redis_addr"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// CartConfig is the root per-home configuration.
type CartConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns a CartConfig populated with sensible defaults.
func Default() *CartConfig {
	return &CartConfig{
		Storage: StorageConfig{
			Backend:   "sqlite",
			Key:       DefaultStorageKey,
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*CartConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if st, ok := raw["storage"].(map[string]any); ok {
		if v, ok := st["backend"].(string); ok && v != "" {
			cfg.Storage.Backend = v
		}
		if v, ok := st["key"].(string); ok && v != "" {
			cfg.Storage.Key = v
		}
		if v, ok := st["redis_addr"].(string); ok && v != "" {
			cfg.Storage.RedisAddr = v
		}
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v, ok := lg["level"].(string); ok && v != "" {
			cfg.Log.Level = v
		}
	}

	return cfg, nil
}

// ---------------------------------------------------------------------------
// Cart home resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global cartvault config file.
// This file stores only cart_home.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cartvault", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveCartHome returns the cart home path and the source of the resolution.
// Priority: CART_HOME env → persisted global config → ~/.cart
// source is one of "env", "config", or "default".
func ResolveCartHome() (path, source string) {
	if env := os.Getenv("CART_HOME"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedCartHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cart"), "default"
}

// GetCartHome returns the resolved cart home path.
func GetCartHome() string {
	path, _ := ResolveCartHome()
	return path
}

// readGlobal loads the global config as a raw map. A missing file yields
// (nil, nil).
func readGlobal() (map[string]any, string, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return nil, cfgPath, nil
	}
	if err != nil {
		return nil, cfgPath, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, cfgPath, nil
	}
	return raw, cfgPath, nil
}

// GetPersistedCartHome reads cart_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedCartHome() (string, bool, error) {
	raw, _, err := readGlobal()
	if err != nil || raw == nil {
		return "", false, err
	}

	val, _ := raw["cart_home"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedCartHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedCartHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	raw, cfgPath, err := readGlobal()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["cart_home"] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedCartHome removes cart_home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedCartHome() (bool, error) {
	raw, cfgPath, err := readGlobal()
	if err != nil || raw == nil {
		return false, err
	}

	if _, ok := raw["cart_home"]; !ok {
		return false, nil
	}
	delete(raw, "cart_home")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}
