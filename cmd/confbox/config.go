package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KilimcininKorOglu/confbox"
)

// Config holds the tool configuration loaded from the --config file.
type Config struct {
	Store         string `yaml:"store"`
	MaxKeys       int    `yaml:"maxKeys"`
	MaxKeyLen     int    `yaml:"maxKeyLen"`
	MaxValueSize  int    `yaml:"maxValueSize"`
	MaxNamespaces int    `yaml:"maxNamespaces"`
	KeyFile       string `yaml:"keyFile"`
	Algorithm     string `yaml:"algorithm"`
}

// Config errors.
var (
	ErrNoStorePath = errors.New("no store path configured")
	ErrBadKeyFile  = errors.New("key file must hold 16 or 32 bytes, raw or hex")
)

// DefaultConfig returns the tool defaults: the library's documented
// limits and AES-128 when a key file is given.
func DefaultConfig() *Config {
	return &Config{
		Store:         "confbox.bin",
		MaxKeys:       confbox.DefaultMaxKeys,
		MaxKeyLen:     confbox.DefaultMaxKeyLen,
		MaxValueSize:  confbox.DefaultMaxValueSize,
		MaxNamespaces: confbox.DefaultMaxNamespaces,
		Algorithm:     "aes-128",
	}
}

// LoadConfig reads the YAML tool configuration, applying defaults for
// missing values. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Store == "" {
		return nil, ErrNoStorePath
	}
	return cfg, nil
}

// options converts the tool configuration to manager options.
func (c *Config) options() confbox.Options {
	opts := confbox.DefaultOptions()
	opts.MaxKeys = c.MaxKeys
	opts.MaxKeyLen = c.MaxKeyLen
	opts.MaxValueSize = c.MaxValueSize
	opts.MaxNamespaces = c.MaxNamespaces
	return opts
}
