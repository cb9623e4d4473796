// Package postgres implements the document store and the query log on
// PostgreSQL (or openGauss) through database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/Gatanot/GaussProject/internal/db"
)

// Compile-time checks: Store serves both store roles.
var (
	_ db.DocumentStore = (*Store)(nil)
	_ db.QueryLogStore = (*Store)(nil)
)

const (
	defaultSchema           = "public"
	defaultTextSearchConfig = "english"
)

// Config holds connection and pool parameters.
type Config struct {
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	ConnectTimeout   time.Duration
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxIdleTime  time.Duration
	Schema           string
	TextSearchConfig string
}

// DSN renders the connection URL understood by lib/pq.
func (c Config) DSN() string {
	q := url.Values{}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	if c.ConnectTimeout > 0 {
		secs := int(c.ConnectTimeout / time.Second)
		if secs < 1 {
			secs = 1
		}
		q.Set("connect_timeout", strconv.Itoa(secs))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Store implements db.DocumentStore and db.QueryLogStore.
type Store struct {
	db       *sql.DB
	schema   string // quoted identifier
	tsConfig string
}

// NewStore opens a connection pool. No connection is made until first use;
// call WaitForReady to block until the server answers.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	return New(conn, cfg.Schema, cfg.TextSearchConfig), nil
}

// New wraps an existing pool. Empty schema and tsConfig fall back to
// "public" and "english".
func New(conn *sql.DB, schema, tsConfig string) *Store {
	if schema == "" {
		schema = defaultSchema
	}
	if tsConfig == "" {
		tsConfig = defaultTextSearchConfig
	}
	return &Store{db: conn, schema: pq.QuoteIdentifier(schema), tsConfig: tsConfig}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) table(name string) string {
	return s.schema + "." + name
}
