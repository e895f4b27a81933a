package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultURL           = "http://localhost:8080"
	DefaultKeyName       = "default"
	DefaultAlgorithm     = "secp256k1"
	DefaultPassphraseEnv = "XO_KEYSTORE_PASSPHRASE"

	KeyStoreMemory   = "memory"
	KeyStoreFile     = "file"
	KeyStoreBolt     = "bolt"
	KeyStorePostgres = "postgres"
)

func Default() *Config {
	return &Config{
		Client: ClientConfig{
			URL:            DefaultURL,
			WaitSeconds:    10,
			TimeoutMs:      30000,
			PollIntervalMs: 500,
			PollTimeoutMs:  60000,
		},
		KeyStore: KeyStoreConfig{
			Type:          KeyStoreFile,
			Algorithm:     DefaultAlgorithm,
			Path:          defaultKeyDir(),
			KeyName:       DefaultKeyName,
			PassphraseEnv: DefaultPassphraseEnv,
		},
		Log: LogConfig{
			Dir:        "./logs",
			File:       "xo.log",
			MaxSizeMB:  100,
			MaxAgeDays: 7,
		},
	}
}

func defaultKeyDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xo/keys"
	}
	return filepath.Join(home, ".xo", "keys")
}

// Load reads path on top of Default(). The format follows the extension:
// .yml/.yaml or .ini. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	case ".ini":
		if err := loadINI(path, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func loadINI(path string, cfg *Config) error {
	file, err := ini.Load(path)
	if err != nil {
		return err
	}
	sections := []struct {
		name   string
		target interface{}
	}{
		{"client", &cfg.Client},
		{"keystore", &cfg.KeyStore},
		{"log", &cfg.Log},
		{"metrics", &cfg.Metrics},
	}
	for _, s := range sections {
		if !file.HasSection(s.name) {
			continue
		}
		if err := file.Section(s.name).MapTo(s.target); err != nil {
			return fmt.Errorf("config: section [%s]: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Client.URL == "" {
		return fmt.Errorf("config: client url is required")
	}
	if c.Client.WaitSeconds < 0 || c.Client.TimeoutMs < 0 || c.Client.PollIntervalMs < 0 || c.Client.PollTimeoutMs < 0 {
		return fmt.Errorf("config: client durations must not be negative")
	}
	if c.Client.RateLimit < 0 || c.Client.RateBurst < 0 {
		return fmt.Errorf("config: client rate limit must not be negative")
	}

	switch c.KeyStore.Type {
	case KeyStoreMemory:
	case KeyStoreFile, KeyStoreBolt:
		if c.KeyStore.Path == "" {
			return fmt.Errorf("config: keystore %s requires a path", c.KeyStore.Type)
		}
	case KeyStorePostgres:
		if c.KeyStore.DSN == "" || c.KeyStore.MasterKey == "" {
			return fmt.Errorf("config: keystore postgres requires dsn and master_key")
		}
	default:
		return fmt.Errorf("config: unknown keystore type %q", c.KeyStore.Type)
	}
	if c.KeyStore.Algorithm == "" {
		return fmt.Errorf("config: keystore algorithm is required")
	}
	if c.KeyStore.KeyName == "" {
		return fmt.Errorf("config: keystore key_name is required")
	}
	return nil
}

func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c ClientConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c ClientConfig) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMs) * time.Millisecond
}

// ResolvePassphrase prefers the configured passphrase over the environment
// variable named by PassphraseEnv. Empty means keys are stored unsealed.
func (c KeyStoreConfig) ResolvePassphrase() string {
	if c.Passphrase != "" {
		return c.Passphrase
	}
	if c.PassphraseEnv != "" {
		return os.Getenv(c.PassphraseEnv)
	}
	return ""
}
