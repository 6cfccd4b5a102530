package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/confbox"
)

var (
	flagConfig string
	flagStore  string
	flagNS     string
)

var rootCmd = &cobra.Command{
	Use:           "confbox",
	Short:         "Inspect and edit confbox configuration stores",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "tool configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "store file path (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagNS, "ns", "n", "", "namespace name (default namespace if empty)")
}

// loadToolConfig resolves the effective tool configuration from the
// --config file and command-line overrides.
func loadToolConfig() (*Config, error) {
	cfg, err := LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagStore != "" {
		cfg.Store = flagStore
	}
	return cfg, nil
}

// openManager initializes a manager over the configured file backend and
// loads the persisted snapshot when one exists. The caller must Deinit.
func openManager(cfg *Config) (*confbox.Manager, error) {
	m := confbox.NewManager()
	if err := m.Init(cfg.options()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := m.SetBackend(confbox.NewFileBackend(cfg.Store)); err != nil {
		m.Deinit()
		return nil, err
	}
	if cfg.KeyFile != "" {
		if err := loadKey(m, cfg); err != nil {
			m.Deinit()
			return nil, err
		}
	}
	if err := m.Load(); err != nil && err != confbox.ErrNotFound {
		m.Deinit()
		return nil, fmt.Errorf("load %s: %w", cfg.Store, err)
	}
	return m, nil
}

// loadKey reads the key file (raw bytes or hex text) and activates it.
func loadKey(m *confbox.Manager, cfg *Config) error {
	alg := confbox.AES128
	if cfg.Algorithm == "aes-256" {
		alg = confbox.AES256
	}
	key, err := readKeyFile(cfg.KeyFile)
	if err != nil {
		return err
	}
	return m.SetEncryptionKey(alg, key)
}

// readKeyFile accepts either raw key bytes or their hex encoding.
// Hex wins when the content parses both ways, since keygen writes hex.
func readKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) == 32 || len(trimmed) == 64 {
		if key, err := hex.DecodeString(trimmed); err == nil {
			return key, nil
		}
	}
	if len(data) == 16 || len(data) == 32 {
		return data, nil
	}
	return nil, ErrBadKeyFile
}

// resolveNamespace registers/resolves the --ns flag on a manager.
func resolveNamespace(m *confbox.Manager) (uint8, error) {
	if flagNS == "" {
		return uint8(confbox.DefaultNamespace), nil
	}
	return m.RegisterNamespace(flagNS)
}
