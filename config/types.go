package config

// ClientConfig configures the ledger REST client
type ClientConfig struct {
	URL            string  `yaml:"url" ini:"url"`
	WaitSeconds    int     `yaml:"wait_seconds" ini:"wait_seconds"`
	TimeoutMs      int     `yaml:"timeout_ms" ini:"timeout_ms"`
	RateLimit      float64 `yaml:"rate_limit" ini:"rate_limit"`
	RateBurst      int     `yaml:"rate_burst" ini:"rate_burst"`
	PollIntervalMs int     `yaml:"poll_interval_ms" ini:"poll_interval_ms"`
	PollTimeoutMs  int     `yaml:"poll_timeout_ms" ini:"poll_timeout_ms"`
}

// KeyStoreConfig selects and configures the signing key backend
type KeyStoreConfig struct {
	Type          string `yaml:"type" ini:"type"`
	Algorithm     string `yaml:"algorithm" ini:"algorithm"`
	Path          string `yaml:"path" ini:"path"`
	KeyName       string `yaml:"key_name" ini:"key_name"`
	Passphrase    string `yaml:"passphrase" ini:"passphrase"`
	PassphraseEnv string `yaml:"passphrase_env" ini:"passphrase_env"`
	DSN           string `yaml:"dsn" ini:"dsn"`
	MasterKey     string `yaml:"master_key" ini:"master_key"`
}

// LogConfig configures the rotating log file
type LogConfig struct {
	Dir        string `yaml:"dir" ini:"dir"`
	File       string `yaml:"file" ini:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" ini:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days" ini:"max_age_days"`
	Debug      bool   `yaml:"debug" ini:"debug"`
	ToFile     bool   `yaml:"to_file" ini:"to_file"`
}

// MetricsConfig enables the prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string `yaml:"addr" ini:"addr"`
}

// Config is the top-level structure for xo.yml / xo.ini
type Config struct {
	Client   ClientConfig   `yaml:"client"`
	KeyStore KeyStoreConfig `yaml:"keystore"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}
