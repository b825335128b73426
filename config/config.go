// Package config loads and saves the on-disk server configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"boardd/storage"
)

const (
	defaultBoardFile = "Notes/Board.md"
	defaultFileName  = "config.json"

	envConfigPath = "BOARDD_CONFIG"
)

// Config holds the user-editable server configuration. The vault path and
// board file mirror the layout of the notes vault the document lives in.
type Config struct {
	VaultPath string `json:"vault_path"`
	BoardFile string `json:"board_file"`
}

// BoardPath returns the absolute path of the board document.
func (c Config) BoardPath() string {
	return filepath.Join(c.VaultPath, filepath.FromSlash(c.BoardFile))
}

// BriefsDir returns the briefs directory relative to the vault root, placed
// beside the board document.
func (c Config) BriefsDir() string {
	dir := filepath.ToSlash(filepath.Dir(filepath.FromSlash(c.BoardFile)))
	if dir == "." {
		return "Briefs"
	}
	return dir + "/Briefs"
}

// DefaultPath returns the configuration file path: $BOARDD_CONFIG when set,
// otherwise config.json beside the working directory.
func DefaultPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return defaultFileName
}

// Defaults returns the configuration used when no file exists yet.
func Defaults() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		VaultPath: filepath.Join(home, "Documents", "Obsidian"),
		BoardFile: defaultBoardFile,
	}
}

// Load reads the configuration file, applying defaults for absent fields. A
// missing file yields the defaults, not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var raw Config
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if raw.VaultPath != "" {
		cfg.VaultPath = raw.VaultPath
	}
	if raw.BoardFile != "" {
		cfg.BoardFile = raw.BoardFile
	}
	return cfg, nil
}

// Save writes the configuration atomically so a crash mid-save cannot corrupt
// the file.
func Save(path string, cfg Config) error {
	data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := storage.WriteAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
