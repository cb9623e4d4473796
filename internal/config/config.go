package config

import (
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the gauss search service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	QueryLog QueryLogConfig `yaml:"querylog"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
	// ActorHeader names the header a trusted upstream sets to the numeric user ID.
	ActorHeader string `yaml:"actor_header"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int             `yaml:"port"`
	ReadTimeoutSec  int             `yaml:"read_timeout_sec"`
	WriteTimeoutSec int             `yaml:"write_timeout_sec"`
	ShutdownSec     int             `yaml:"shutdown_timeout_sec"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	// TrustedProxies lists CIDRs or addresses whose forwarding headers
	// (X-Forwarded-For, X-Real-IP) are believed. Empty trusts nobody.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// RateLimitConfig bounds requests per client address. Zero RPS disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// DatabaseConfig holds document store settings.
type DatabaseConfig struct {
	Driver             string        `yaml:"driver"` // postgres, memory (default: postgres)
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"sslmode"`
	Schema             string        `yaml:"schema"`
	TextSearchConfig   string        `yaml:"text_search_config"`
	ConnectTimeoutSec  int           `yaml:"connect_timeout_sec"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxIdleTimeSec int           `yaml:"conn_max_idle_time_sec"`
	ReadinessTimeout   int           `yaml:"readiness_timeout_sec"`
	SeedFile           string        `yaml:"seed_file"` // memory driver only
	Breaker            BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings shared by all stores.
type BreakerConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MaxRequests  uint32  `yaml:"max_requests"`
	IntervalSec  int     `yaml:"interval_sec"`
	TimeoutSec   int     `yaml:"timeout_sec"`
	MinRequests  uint32  `yaml:"min_requests"`
	FailureRatio float64 `yaml:"failure_ratio"`
}

// QueryLogConfig holds query-log store and writer settings.
type QueryLogConfig struct {
	Driver       string   `yaml:"driver"` // postgres, redis, valkey, memory (default: database.driver)
	Addrs        []string `yaml:"addrs"`  // redis only
	Username     string   `yaml:"username"`
	Password     string   `yaml:"password"`
	DB           int      `yaml:"db"`
	KeyPrefix    string   `yaml:"key_prefix"`
	StreamMaxLen int64    `yaml:"stream_max_len"`
	Workers      int      `yaml:"workers"`
}

// SearchConfig holds result and vocabulary bounds.
type SearchConfig struct {
	DefaultLimit   int `yaml:"default_limit"`
	MaxLimit       int `yaml:"max_limit"`
	VocabularySize int `yaml:"vocabulary_size"`
	TrendingSize   int `yaml:"trending_size"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RateLimit.RPS > 0 && c.HTTP.RateLimit.Burst <= 0 {
		c.HTTP.RateLimit.Burst = int(c.HTTP.RateLimit.RPS) + 1
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Port <= 0 {
		c.Database.Port = 5432
	}
	if c.Database.Schema == "" {
		c.Database.Schema = "public"
	}
	if c.Database.TextSearchConfig == "" {
		c.Database.TextSearchConfig = "english"
	}
	if c.Database.ConnectTimeoutSec <= 0 {
		c.Database.ConnectTimeoutSec = 2
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxIdleTimeSec <= 0 {
		c.Database.ConnMaxIdleTimeSec = 30
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.QueryLog.Driver == "" {
		c.QueryLog.Driver = c.Database.Driver
	}
	if c.QueryLog.KeyPrefix == "" {
		c.QueryLog.KeyPrefix = "gauss:"
	}
	if c.QueryLog.StreamMaxLen <= 0 {
		c.QueryLog.StreamMaxLen = 100000
	}
	if c.QueryLog.Workers <= 0 {
		c.QueryLog.Workers = 64
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.VocabularySize <= 0 {
		c.Search.VocabularySize = 50
	}
	if c.Search.TrendingSize <= 0 {
		c.Search.TrendingSize = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimit.RPS < 0 {
		return fmt.Errorf("http.rate_limit.rps must not be negative, got %v", c.HTTP.RateLimit.RPS)
	}
	for _, p := range c.HTTP.TrustedProxies {
		if !validProxyEntry(p) {
			return fmt.Errorf("http.trusted_proxies: %q is not an IP address or CIDR", p)
		}
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required for the postgres driver")
		}
	case "memory":
		// ok
	default:
		return fmt.Errorf("database.driver must be \"postgres\" or \"memory\", got %q", c.Database.Driver)
	}
	switch c.QueryLog.Driver {
	case "postgres":
		if c.Database.Driver != "postgres" {
			return fmt.Errorf("querylog.driver \"postgres\" requires database.driver \"postgres\"")
		}
	case "redis", "valkey":
		if len(c.QueryLog.Addrs) == 0 {
			return fmt.Errorf("querylog.addrs is required for the %s driver", c.QueryLog.Driver)
		}
	case "memory":
		// ok
	default:
		return fmt.Errorf("querylog.driver must be one of postgres, redis, valkey, memory, got %q", c.QueryLog.Driver)
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if r := c.Database.Breaker.FailureRatio; r < 0 || r > 1 {
		return fmt.Errorf("database.breaker.failure_ratio must be within [0, 1], got %v", r)
	}
	return nil
}

func validProxyEntry(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err == nil
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
