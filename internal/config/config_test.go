package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "postgres", Host: "localhost"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_UnknownDatabaseDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "sqlite"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	expected := `database.driver must be "postgres" or "memory", got "sqlite"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_MissingPostgresHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing host")
	}
}

func TestValidate_MemoryNeedsNoHost(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}, Database: DatabaseConfig{Driver: "memory"}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.QueryLog.Driver != "memory" {
		t.Errorf("expected querylog driver to follow database driver, got %q", cfg.QueryLog.Driver)
	}
}

func TestValidate_QueryLogDrivers(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"redis with addrs", func(c *Config) {
			c.QueryLog.Driver = "redis"
			c.QueryLog.Addrs = []string{"localhost:6379"}
		}, false},
		{"redis without addrs", func(c *Config) { c.QueryLog.Driver = "redis" }, true},
		{"valkey with addrs", func(c *Config) {
			c.QueryLog.Driver = "valkey"
			c.QueryLog.Addrs = []string{"valkey:6379"}
		}, false},
		{"postgres log on memory database", func(c *Config) {
			c.Database.Driver = "memory"
			c.QueryLog.Driver = "postgres"
		}, true},
		{"unknown", func(c *Config) { c.QueryLog.Driver = "kafka" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_TrustedProxies(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.TrustedProxies = []string{"10.0.0.0/8", "127.0.0.1", "::1", ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.HTTP.TrustedProxies = []string{"nginx"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-address trusted proxy")
	}
}

func TestValidate_LimitsAndBreaker(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultLimit = 200
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when default limit exceeds max limit")
	}

	cfg = validConfig()
	cfg.Database.Breaker.FailureRatio = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for failure ratio above 1")
	}

	cfg = validConfig()
	cfg.HTTP.RateLimit.RPS = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative rps")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("unexpected http timeouts: %+v", cfg.HTTP)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected Driver=postgres, got %q", cfg.Database.Driver)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected Port=5432, got %d", cfg.Database.Port)
	}
	if cfg.Database.MaxOpenConns != 20 {
		t.Errorf("expected MaxOpenConns=20, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxIdleTimeSec != 30 {
		t.Errorf("expected ConnMaxIdleTimeSec=30, got %d", cfg.Database.ConnMaxIdleTimeSec)
	}
	if cfg.Database.ConnectTimeoutSec != 2 {
		t.Errorf("expected ConnectTimeoutSec=2, got %d", cfg.Database.ConnectTimeoutSec)
	}
	if cfg.Database.TextSearchConfig != "english" {
		t.Errorf("expected TextSearchConfig=english, got %q", cfg.Database.TextSearchConfig)
	}
	if cfg.QueryLog.Driver != "postgres" {
		t.Errorf("expected querylog Driver=postgres, got %q", cfg.QueryLog.Driver)
	}
	if cfg.QueryLog.KeyPrefix != "gauss:" {
		t.Errorf("expected KeyPrefix='gauss:', got %q", cfg.QueryLog.KeyPrefix)
	}
	if cfg.Search.DefaultLimit != 20 || cfg.Search.MaxLimit != 100 {
		t.Errorf("unexpected search limits: %+v", cfg.Search)
	}
	if cfg.Search.VocabularySize != 50 || cfg.Search.TrendingSize != 5 {
		t.Errorf("unexpected search sizes: %+v", cfg.Search)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, RateLimit: RateLimitConfig{RPS: 5, Burst: 2}},
		Database: DatabaseConfig{Driver: "memory", MaxOpenConns: 4},
		QueryLog: QueryLogConfig{Driver: "redis", KeyPrefix: "custom:", Workers: 8},
		Search:   SearchConfig{DefaultLimit: 10, MaxLimit: 50},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 || cfg.HTTP.RateLimit.Burst != 2 {
		t.Errorf("http overridden: %+v", cfg.HTTP)
	}
	if cfg.Database.Driver != "memory" || cfg.Database.MaxOpenConns != 4 {
		t.Errorf("database overridden: %+v", cfg.Database)
	}
	if cfg.QueryLog.Driver != "redis" || cfg.QueryLog.KeyPrefix != "custom:" || cfg.QueryLog.Workers != 8 {
		t.Errorf("querylog overridden: %+v", cfg.QueryLog)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxLimit != 50 {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
}

func TestApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{RateLimit: RateLimitConfig{RPS: 4.5}}}
	cfg.ApplyDefaults()

	if cfg.HTTP.RateLimit.Burst != 5 {
		t.Errorf("expected Burst=5, got %d", cfg.HTTP.RateLimit.Burst)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("GAUSS_DB_HOST", "db.internal")

	got := string(expandEnvVars([]byte("host: ${GAUSS_DB_HOST}\nport: ${GAUSS_DB_PORT_UNSET:-5433}\nuser: ${GAUSS_UNSET}")))
	want := "host: db.internal\nport: 5433\nuser: "
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
http:
  port: ${GAUSS_TEST_PORT:-9090}
database:
  driver: memory
search:
  max_limit: 40
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Search.MaxLimit != 40 || cfg.Search.DefaultLimit != 20 {
		t.Errorf("unexpected search config: %+v", cfg.Search)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}
