package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:3001" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Output.Format != "table" || !cfg.Output.Color {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if !filepath.IsAbs(path) {
		t.Error("Path should be absolute")
	}
	if !strings.HasSuffix(path, filepath.Join(".securenotes", "cli.yaml")) {
		t.Errorf("Path = %q", path)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "cli.yaml"), nil)
	if err != nil {
		t.Fatalf("Load should not error for nonexistent file: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Error("Should return default config for nonexistent file")
	}
}

func TestLoad_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
api:
  base_url: http://file:3001
  timeout: 3s
storage:
  backend: memory
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.API.BaseURL != "http://file:3001" || cfg.API.Timeout != 3*time.Second {
			t.Errorf("API = %+v", cfg.API)
		}
		if cfg.Storage.Backend != "memory" || cfg.Output.Format != "json" {
			t.Errorf("cfg = %+v", cfg)
		}
		// Untouched keys keep their defaults.
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %q", cfg.Log.Level)
		}
	})

	t.Run("short env alias", func(t *testing.T) {
		t.Setenv("SECURENOTES_API_BASE", "http://alias:3001")
		cfg, err := Load(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.API.BaseURL != "http://alias:3001" {
			t.Errorf("BaseURL = %q", cfg.API.BaseURL)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("SECURENOTES_API_BASE_URL", "http://env:3001")
		t.Setenv("SECURENOTES_OUTPUT_COLOR", "false")
		cfg, err := Load(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.API.BaseURL != "http://env:3001" {
			t.Errorf("BaseURL = %q", cfg.API.BaseURL)
		}
		if cfg.Output.Color {
			t.Error("Output.Color should be false")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SECURENOTES_API_BASE_URL", "http://env:3001")
		cfg, err := Load(path, map[string]any{
			KeyAPIBaseURL: "http://flag:3001",
			KeyAPITimeout: 2 * time.Second,
		})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.API.BaseURL != "http://flag:3001" || cfg.API.Timeout != 2*time.Second {
			t.Errorf("API = %+v", cfg.API)
		}
	})
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")

	cfg := Default()
	cfg.API.BaseURL = "https://notes.example.com"
	cfg.API.Timeout = 30 * time.Second
	cfg.Storage.Backend = "redis"
	cfg.Storage.Redis.Addr = "localhost:6379"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("mode = %o, want 0600", perm)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "timeout: 30s") {
		t.Errorf("timeout not human readable:\n%s", data)
	}

	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.API != cfg.API {
		t.Errorf("API = %+v, want %+v", loaded.API, cfg.API)
	}
	if loaded.Storage.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", loaded.Storage.Redis.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CLIConfig)
		wantErr string
	}{
		{"scheme-less url is fine", func(c *CLIConfig) { c.API.BaseURL = "localhost:3001" }, ""},
		{"bad url", func(c *CLIConfig) { c.API.BaseURL = "ftp://x" }, "api.base_url"},
		{"empty url", func(c *CLIConfig) { c.API.BaseURL = "" }, "api.base_url"},
		{"zero timeout", func(c *CLIConfig) { c.API.Timeout = 0 }, "api.timeout"},
		{"unknown backend", func(c *CLIConfig) { c.Storage.Backend = "etcd" }, "storage.backend"},
		{"redis without addr", func(c *CLIConfig) { c.Storage.Backend = "redis" }, "storage.redis.addr"},
		{"badger without dir", func(c *CLIConfig) { c.Storage.Dir = "" }, "storage.dir"},
		{"memory", func(c *CLIConfig) { c.Storage.Backend = "memory"; c.Storage.Dir = "" }, ""},
		{"bad output", func(c *CLIConfig) { c.Output.Format = "xml" }, "output.format"},
		{"bad log format", func(c *CLIConfig) { c.Log.Format = "logfmt" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Storage.EncryptionKey = "hunter2"
	cfg.Storage.Redis.Password = "pw"

	r := cfg.Redacted()
	if r.Storage.EncryptionKey != "***" || r.Storage.Redis.Password != "***" {
		t.Errorf("Redacted() = %+v", r.Storage)
	}
	if cfg.Storage.EncryptionKey != "hunter2" {
		t.Error("Redacted() must not modify the original")
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := Default()
	cfg.Storage.Redis.KeyPrefix = ""
	cfg.Storage.EncryptionKey = "k"

	opts := cfg.StorageOptions()
	if opts.Redis.KeyPrefix != "securenotes:" {
		t.Errorf("KeyPrefix = %q", opts.Redis.KeyPrefix)
	}
	if opts.EncryptionKey != "k" || opts.Dir != cfg.Storage.Dir {
		t.Errorf("opts = %+v", opts)
	}
}
