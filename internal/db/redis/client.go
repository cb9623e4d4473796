// Package redis implements the query log on Redis or Valkey via rueidis.
//
// Every SEARCH event is appended to a capped stream and counted in a sorted
// set keyed by query text, so aggregation is a single range read instead of a
// GROUP BY over the whole log.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/Gatanot/GaussProject/internal/db"
)

// Compile-time check: Store implements db.QueryLogStore.
var _ db.QueryLogStore = (*Store)(nil)

const (
	defaultKeyPrefix    = "gauss:"
	defaultStreamMaxLen = 100000
)

// Config holds connection parameters for a Redis query log.
type Config struct {
	Addrs        []string
	Username     string
	Password     string
	DB           int
	KeyPrefix    string
	StreamMaxLen int64
}

// Store implements db.QueryLogStore via rueidis.
type Store struct {
	client       rueidis.Client
	keyPrefix    string
	streamMaxLen int64
}

// NewStore creates a Redis query log via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return newStore(client, cfg), nil
}

func newStore(client rueidis.Client, cfg Config) *Store {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	maxLen := cfg.StreamMaxLen
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}
	return &Store{client: client, keyPrefix: prefix, streamMaxLen: maxLen}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
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
			return fmt.Errorf("timeout waiting for redis: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
