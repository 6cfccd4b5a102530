package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Store != "confbox.bin" {
		t.Errorf("Store = %q, want %q", cfg.Store, "confbox.bin")
	}
	if cfg.Algorithm != "aes-128" {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, "aes-128")
	}

	opts := cfg.options()
	if opts.MaxKeys != 64 || opts.MaxValueSize != 256 {
		t.Errorf("options() = %d keys, %d value bytes, want 64, 256", opts.MaxKeys, opts.MaxValueSize)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confbox.yaml")
	doc := `
store: /var/lib/device/conf.bin
maxKeys: 128
maxValueSize: 512
keyFile: /etc/device/conf.key
algorithm: aes-256
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Store != "/var/lib/device/conf.bin" {
		t.Errorf("Store = %q, want configured path", cfg.Store)
	}
	if cfg.MaxKeys != 128 || cfg.MaxValueSize != 512 {
		t.Errorf("limits = %d/%d, want 128/512", cfg.MaxKeys, cfg.MaxValueSize)
	}
	// Unset fields keep their defaults.
	if cfg.MaxKeyLen != 32 {
		t.Errorf("MaxKeyLen = %d, want default 32", cfg.MaxKeyLen)
	}
	if cfg.KeyFile != "/etc/device/conf.key" || cfg.Algorithm != "aes-256" {
		t.Errorf("key config = %q/%q, want configured values", cfg.KeyFile, cfg.Algorithm)
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confbox.yaml")
	if err := os.WriteFile(path, []byte("store: [unterminated"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() accepted malformed YAML")
	}
}

func TestReadKeyFile(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		return path
	}

	// Hex-encoded 16-byte key, as keygen writes it.
	hexPath := write("hex.key", []byte("000102030405060708090a0b0c0d0e0f\n"))
	key, err := readKeyFile(hexPath)
	if err != nil || len(key) != 16 {
		t.Errorf("readKeyFile(hex) = %d bytes, %v, want 16, nil", len(key), err)
	}

	// Raw 32-byte key.
	rawPath := write("raw.key", make([]byte, 32))
	key, err = readKeyFile(rawPath)
	if err != nil || len(key) != 32 {
		t.Errorf("readKeyFile(raw) = %d bytes, %v, want 32, nil", len(key), err)
	}

	// Wrong size is rejected.
	badPath := write("bad.key", make([]byte, 20))
	if _, err := readKeyFile(badPath); err != ErrBadKeyFile {
		t.Errorf("readKeyFile(bad) error = %v, want %v", err, ErrBadKeyFile)
	}
}
