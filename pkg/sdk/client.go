package gauss

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/db/memory"
	"github.com/Gatanot/GaussProject/internal/db/postgres"
	dbRedis "github.com/Gatanot/GaussProject/internal/db/redis"
	"github.com/Gatanot/GaussProject/internal/domain/search/response"
	documentrepo "github.com/Gatanot/GaussProject/internal/repository/document"
	querylogrepo "github.com/Gatanot/GaussProject/internal/repository/querylog"
	searchrepo "github.com/Gatanot/GaussProject/internal/repository/search"
	healthuc "github.com/Gatanot/GaussProject/internal/usecase/health"
	searchuc "github.com/Gatanot/GaussProject/internal/usecase/search"
	trendinguc "github.com/Gatanot/GaussProject/internal/usecase/trending"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultLogWorkers       = 16
	releaseTimeout          = 5 * time.Second
)

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, req searchuc.Request) response.Response
	Suggest(ctx context.Context, query string) (string, bool)
}

type trendingUseCase interface {
	Overview(ctx context.Context) trendinguc.Overview
}

// Client is the gauss SDK entry point.
type Client struct {
	docs        db.DocumentStore
	log         db.QueryLogStore // nil when the log shares docs
	recorder    *searchuc.AsyncRecorder
	searchSvc   searchUseCase
	trendingSvc trendingUseCase
	healthSvc   healthUseCase
	obs         *observer
}

// New creates a Client and waits for its stores to answer.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{workers: defaultLogWorkers}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.driver == "" {
		return nil, errors.New("gauss: document store required (use WithPostgres, WithMemory or WithSeedFile)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	docs, log, err := createStores(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{docs: docs, log: log, obs: obs}

	if err := docs.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		c.Close()
		return nil, fmt.Errorf("gauss: database not ready: %w", err)
	}
	if log != nil {
		if err := log.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			c.Close()
			return nil, fmt.Errorf("gauss: query log not ready: %w", err)
		}
	}

	if err := c.wire(cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// createStores returns the document store and, when it is a separate
// backend, the query-log store.
func createStores(cfg *clientConfig) (db.DocumentStore, db.QueryLogStore, error) {
	var docs db.DocumentStore
	switch cfg.driver {
	case "postgres":
		pc := cfg.postgres
		if pc.Port == 0 {
			pc.Port = 5432
		}
		s, err := postgres.NewStore(postgres.Config{
			Host:             pc.Host,
			Port:             pc.Port,
			User:             pc.User,
			Password:         pc.Password,
			Database:         pc.Database,
			SSLMode:          pc.SSLMode,
			ConnectTimeout:   pc.ConnectTimeout,
			Schema:           pc.Schema,
			TextSearchConfig: pc.TextSearchConfig,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("gauss: create postgres store: %w", err)
		}
		docs = s
	case "memory":
		mem := memory.New(nil)
		if cfg.seedFile != "" {
			var err error
			if mem, err = memory.LoadSeed(cfg.seedFile); err != nil {
				return nil, nil, fmt.Errorf("gauss: load seed: %w", err)
			}
		}
		for _, d := range toDomainDocuments(cfg.docs) {
			mem.Add(d)
		}
		docs = mem
	default:
		return nil, nil, fmt.Errorf("gauss: unknown driver %q", cfg.driver)
	}

	if len(cfg.redisAddrs) == 0 {
		return docs, nil, nil
	}
	log, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.redisAddrs,
		Password: cfg.redisPassword,
	})
	if err != nil {
		docs.Close()
		return nil, nil, fmt.Errorf("gauss: create redis query log: %w", err)
	}
	return docs, log, nil
}

func (c *Client) wire(cfg *clientConfig) error {
	var logStore db.QueryLogStore
	var logPinger healthuc.Pinger
	if c.log != nil {
		logStore, logPinger = c.log, c.log
	} else {
		shared, ok := c.docs.(db.QueryLogStore)
		if !ok {
			return fmt.Errorf("gauss: driver %q has no query log", cfg.driver)
		}
		logStore = shared
	}

	queryLog := querylogrepo.New(logStore)
	recorder, err := searchuc.NewAsyncRecorder(queryLog, cfg.workers, zap.NewNop())
	if err != nil {
		return fmt.Errorf("gauss: create log writer: %w", err)
	}
	c.recorder = recorder

	c.searchSvc = searchuc.New(searchrepo.New(c.docs), queryLog, recorder, searchuc.Config{
		DefaultLimit: cfg.defaultLimit,
		MaxLimit:     cfg.maxLimit,
	})
	c.trendingSvc = trendinguc.New(documentrepo.New(c.docs), queryLog, 0)
	c.healthSvc = healthuc.New(c.docs, logPinger)
	return nil
}

// Close drains pending query-log writes and releases all resources.
func (c *Client) Close() {
	if c.recorder != nil {
		if err := c.recorder.Release(releaseTimeout); err != nil && c.obs != nil && c.obs.logger != nil {
			c.obs.logger.Warn("query log writes still pending", "error", err)
		}
	}
	if c.log != nil {
		c.log.Close()
	}
	if c.docs != nil {
		c.docs.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.docs.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search ranks resources matching query. A store failure yields a response
// with Error set together with an error wrapping ErrStoreUnavailable.
// Every non-blank query is recorded in the query log.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observeSearch(strings.TrimSpace(query), &resp, start, err) }()

	if opts.Limit < 0 {
		return SearchResponse{}, fmt.Errorf("%w: limit must be non-negative", ErrInvalidArgument)
	}
	out := c.searchSvc.Search(ctx, searchuc.Request{
		Query:      query,
		Limit:      opts.Limit,
		ActorID:    opts.ActorID,
		SourceAddr: opts.SourceAddr,
	})
	resp = responseFromDomain(&out)
	if out.Failed() {
		return resp, fmt.Errorf("search: %w", ErrStoreUnavailable)
	}
	return resp, nil
}

// Suggest returns a spelling correction for query, if the query log holds
// a close enough term. Nothing is recorded.
func (c *Client) Suggest(ctx context.Context, query string) (string, bool) {
	start := time.Now()
	s, ok := c.searchSvc.Suggest(ctx, query)
	c.obs.observe("suggest", start, nil)
	return s, ok
}

// Trending returns the most popular resources and searches.
func (c *Client) Trending(ctx context.Context) Trending {
	start := time.Now()
	ov := c.trendingSvc.Overview(ctx)
	out := Trending{
		Resources: make([]HotResource, len(ov.Documents)),
		Searches:  make([]HotSearch, len(ov.Searches)),
	}
	for i := range ov.Documents {
		out.Resources[i] = hotResourceFromDomain(&ov.Documents[i])
	}
	for i, t := range ov.Searches {
		out.Searches[i] = hotSearchFromDomain(t)
	}
	c.obs.observe("trending", start, nil)
	return out
}
