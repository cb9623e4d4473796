package gauss

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// PostgresConfig holds connection parameters for the resource database.
type PostgresConfig struct {
	Host     string
	Port     int // default 5432
	User     string
	Password string
	Database string
	SSLMode  string // default "disable"
	Schema   string // default "public"
	// TextSearchConfig names the full-text configuration, default "english".
	TextSearchConfig string
	ConnectTimeout   time.Duration
}

type clientConfig struct {
	driver   string // "postgres" or "memory"
	postgres PostgresConfig
	docs     []Document
	seedFile string

	redisAddrs    []string
	redisPassword string

	defaultLimit int
	maxLimit     int
	workers      int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres stores documents and the query log in PostgreSQL.
func WithPostgres(cfg PostgresConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "postgres"
		c.postgres = cfg
	})
}

// WithMemory indexes docs in process. The query log is kept in memory too
// unless WithRedisQueryLog is also given.
func WithMemory(docs ...Document) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.docs = append(c.docs, docs...)
	})
}

// WithSeedFile loads documents and past queries from a YAML seed file
// into the memory driver.
func WithSeedFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.seedFile = path
	})
}

// WithRedisQueryLog keeps the query log in Redis or Valkey instead of the
// document database.
func WithRedisQueryLog(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithLimits sets the default and maximum result counts.
// Zero keeps the built-in values (20 and 100).
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithLogWorkers bounds concurrent query-log writes. Default: 16.
// Non-positive values keep the default.
func WithLogWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		if n > 0 {
			c.workers = n
		}
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
