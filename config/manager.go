package config

import (
	"fmt"
	"sync"
)

// Manager holds the current configuration and persists updates. Reads vastly
// outnumber writes; a RWMutex keeps Current cheap.
type Manager struct {
	path string

	mu  sync.RWMutex
	cfg Config
}

// NewManager loads the configuration from path (defaults when absent).
func NewManager(path string) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path, cfg: cfg}, nil
}

// Current returns the active configuration.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Update validates, persists, and activates a new configuration. Later board
// reads and writes see the new paths immediately.
func (m *Manager) Update(cfg Config) error {
	if cfg.VaultPath == "" || cfg.BoardFile == "" {
		return fmt.Errorf("vault_path and board_file are required")
	}
	if err := Save(m.path, cfg); err != nil {
		return err
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}
