package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/securenotes-go/internal/cli/connection"
	"github.com/yndnr/securenotes-go/internal/storage"
)

// Configuration keys, as used in the YAML file and by --flag overrides.
const (
	KeyAPIBaseURL        = "api.base_url"
	KeyAPITimeout        = "api.timeout"
	KeyAPICAFile         = "api.ca_file"
	KeyAPIInsecure       = "api.insecure_skip_verify"
	KeyStorageBackend    = "storage.backend"
	KeyStorageDir        = "storage.dir"
	KeyStorageEncryption = "storage.encryption_key"
	KeyRedisAddr         = "storage.redis.addr"
	KeyRedisPassword     = "storage.redis.password"
	KeyRedisDB           = "storage.redis.db"
	KeyRedisKeyPrefix    = "storage.redis.key_prefix"
	KeyOutputFormat      = "output.format"
	KeyOutputColor       = "output.color"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
)

// Keys lists every configuration key.
func Keys() []string {
	return []string{
		KeyAPIBaseURL, KeyAPITimeout, KeyAPICAFile, KeyAPIInsecure,
		KeyStorageBackend, KeyStorageDir, KeyStorageEncryption,
		KeyRedisAddr, KeyRedisPassword, KeyRedisDB, KeyRedisKeyPrefix,
		KeyOutputFormat, KeyOutputColor,
		KeyLogLevel, KeyLogFormat,
	}
}

// DefaultBaseURL is used when nothing else names the API.
const DefaultBaseURL = "http://localhost:3001"

// CLIConfig is the configuration for securenotes-cli.
type CLIConfig struct {
	API     APIConfig     `koanf:"api" yaml:"api"`
	Storage StorageConfig `koanf:"storage" yaml:"storage"`
	Output  OutputConfig  `koanf:"output" yaml:"output"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
}

// APIConfig describes how to reach the notes API.
type APIConfig struct {
	BaseURL            string        `koanf:"base_url" yaml:"base_url"`
	Timeout            time.Duration `koanf:"timeout" yaml:"timeout"`
	CAFile             string        `koanf:"ca_file" yaml:"ca_file,omitempty"`
	InsecureSkipVerify bool          `koanf:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// MarshalYAML writes the timeout as "15s" rather than nanoseconds.
func (a APIConfig) MarshalYAML() (any, error) {
	type plain struct {
		BaseURL            string `yaml:"base_url"`
		Timeout            string `yaml:"timeout"`
		CAFile             string `yaml:"ca_file,omitempty"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	}
	return plain{
		BaseURL:            a.BaseURL,
		Timeout:            a.Timeout.String(),
		CAFile:             a.CAFile,
		InsecureSkipVerify: a.InsecureSkipVerify,
	}, nil
}

// StorageConfig selects where the access token is kept.
type StorageConfig struct {
	Backend       string      `koanf:"backend" yaml:"backend"`
	Dir           string      `koanf:"dir" yaml:"dir"`
	EncryptionKey string      `koanf:"encryption_key" yaml:"encryption_key,omitempty"`
	Redis         RedisConfig `koanf:"redis" yaml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr      string `koanf:"addr" yaml:"addr,omitempty"`
	Password  string `koanf:"password" yaml:"password,omitempty"`
	DB        int    `koanf:"db" yaml:"db"`
	KeyPrefix string `koanf:"key_prefix" yaml:"key_prefix"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format string `koanf:"format" yaml:"format"` // table, json, yaml
	Color  bool   `koanf:"color" yaml:"color"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	redis := storage.DefaultRedisConfig()
	return &CLIConfig{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: connection.DefaultTimeout,
		},
		Storage: StorageConfig{
			Backend: storage.BackendBadger,
			Dir:     storage.DefaultDir(),
			Redis:   RedisConfig{KeyPrefix: redis.KeyPrefix},
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// StorageOptions converts the storage section for storage.Open.
func (c *CLIConfig) StorageOptions() storage.Config {
	redis := storage.DefaultRedisConfig()
	redis.Addr = c.Storage.Redis.Addr
	redis.Password = c.Storage.Redis.Password
	redis.DB = c.Storage.Redis.DB
	if c.Storage.Redis.KeyPrefix != "" {
		redis.KeyPrefix = c.Storage.Redis.KeyPrefix
	}
	return storage.Config{
		Backend:       c.Storage.Backend,
		Dir:           c.Storage.Dir,
		EncryptionKey: c.Storage.EncryptionKey,
		Badger:        storage.DefaultBadgerConfig(),
		Redis:         redis,
	}
}

// Validate checks the configuration for values the CLI cannot use.
func (c *CLIConfig) Validate() error {
	var problems []string

	if err := connection.CheckBaseURL(c.API.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("%s: %q is not an http(s) URL", KeyAPIBaseURL, c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("%s: must be positive", KeyAPITimeout))
	}

	switch strings.ToLower(c.Storage.Backend) {
	case storage.BackendBadger:
		if c.Storage.Dir == "" {
			problems = append(problems, fmt.Sprintf("%s: required for the badger backend", KeyStorageDir))
		}
	case storage.BackendRedis:
		if c.Storage.Redis.Addr == "" {
			problems = append(problems, fmt.Sprintf("%s: required for the redis backend", KeyRedisAddr))
		}
	case storage.BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("%s: unknown backend %q", KeyStorageBackend, c.Storage.Backend))
	}

	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		problems = append(problems, fmt.Sprintf("%s: unknown format %q", KeyOutputFormat, c.Output.Format))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("%s: unknown format %q", KeyLogFormat, c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *CLIConfig) Redacted() *CLIConfig {
	out := *c
	if out.Storage.EncryptionKey != "" {
		out.Storage.EncryptionKey = "***"
	}
	if out.Storage.Redis.Password != "" {
		out.Storage.Redis.Password = "***"
	}
	return &out
}
