// Package config manages tokenvault configuration and the vault directory
// layout. The vault holds the SQLite database, the blob store, and a TOML
// config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	VaultDirName = ".tokenvault"
	ConfigFile   = "config"
	DatabaseFile = "vault.db"
	BlobFile     = "blobs.db"
	ExportsDir   = "exports"

	// EnvVaultDir overrides the vault location (used by tests and scripts).
	EnvVaultDir = "TOKENVAULT_DIR"
)

// Defaults for tunable behavior.
const (
	DefaultDebounceMillis = 2000
	DefaultSnapshotKeep   = 10
)

// Config represents the vault configuration.
type Config struct {
	DebounceMillis int `toml:"autosave_debounce_ms"`
	SnapshotKeep   int `toml:"snapshot_keep"`

	path string // path to the vault directory
}

// VaultRoot resolves the vault directory: $TOKENVAULT_DIR if set, else
// ~/.tokenvault.
func VaultRoot() (string, error) {
	if dir := os.Getenv(EnvVaultDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, VaultDirName), nil
}

// Load loads the configuration from the vault directory.
func Load() (*Config, error) {
	root, err := VaultRoot()
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault not initialized at %s (run 'tokenvault init')", root)
	}

	cfg := &Config{
		DebounceMillis: DefaultDebounceMillis,
		SnapshotKeep:   DefaultSnapshotKeep,
		path:           root,
	}

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DebounceMillis <= 0 {
		cfg.DebounceMillis = DefaultDebounceMillis
	}
	if cfg.SnapshotKeep <= 0 {
		cfg.SnapshotKeep = DefaultSnapshotKeep
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(c.path, ConfigFile), data, 0644)
}

// VaultPath returns the path to the vault directory.
func (c *Config) VaultPath() string {
	return c.path
}

// DatabasePath returns the path to the SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// BlobPath returns the path to the bbolt blob store.
func (c *Config) BlobPath() string {
	return filepath.Join(c.path, BlobFile)
}

// ExportsPath returns the directory used for project export bundles.
func (c *Config) ExportsPath() string {
	return filepath.Join(c.path, ExportsDir)
}

// Initialize creates the vault directory with an initial configuration.
func Initialize() (*Config, error) {
	root, err := VaultRoot()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(root, ConfigFile)); err == nil {
		return nil, fmt.Errorf("vault already initialized at %s", root)
	}

	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, ExportsDir), 0700); err != nil {
		return nil, fmt.Errorf("failed to create exports directory: %w", err)
	}

	cfg := &Config{
		DebounceMillis: DefaultDebounceMillis,
		SnapshotKeep:   DefaultSnapshotKeep,
		path:           root,
	}
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	return cfg, nil
}
