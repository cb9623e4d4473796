package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gatanot/GaussProject/internal/config"
	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/db/breaker"
	"github.com/Gatanot/GaussProject/internal/db/memory"
	"github.com/Gatanot/GaussProject/internal/db/postgres"
	dbRedis "github.com/Gatanot/GaussProject/internal/db/redis"
	"github.com/Gatanot/GaussProject/internal/usecase/health"
)

// storeSet holds the document store and the query-log store. They may be
// the same underlying connection.
type storeSet struct {
	docs   db.DocumentStore
	log    db.QueryLogStore
	shared bool
}

// separateLog returns the query-log pinger when it is a distinct backend.
func (s *storeSet) separateLog() health.Pinger {
	if s.shared {
		return nil
	}
	return s.log
}

func (s *storeSet) Close() {
	s.docs.Close()
	if !s.shared {
		s.log.Close()
	}
}

func openStores(cfg *config.Config, log *zap.Logger) (*storeSet, error) {
	var (
		set     storeSet
		pg      *postgres.Store
		mem     *memory.Store
		err     error
		dbCfg   = cfg.Database
		breakCf = breakerConfig(dbCfg.Breaker)
	)

	switch dbCfg.Driver {
	case "postgres":
		pg, err = postgres.NewStore(postgres.Config{
			Host:             dbCfg.Host,
			Port:             dbCfg.Port,
			User:             dbCfg.User,
			Password:         dbCfg.Password,
			Database:         dbCfg.Name,
			SSLMode:          dbCfg.SSLMode,
			ConnectTimeout:   time.Duration(dbCfg.ConnectTimeoutSec) * time.Second,
			MaxOpenConns:     dbCfg.MaxOpenConns,
			MaxIdleConns:     dbCfg.MaxIdleConns,
			ConnMaxIdleTime:  time.Duration(dbCfg.ConnMaxIdleTimeSec) * time.Second,
			Schema:           dbCfg.Schema,
			TextSearchConfig: dbCfg.TextSearchConfig,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		set.docs = pg
	case "memory":
		if dbCfg.SeedFile != "" {
			mem, err = memory.LoadSeed(dbCfg.SeedFile)
			if err != nil {
				return nil, fmt.Errorf("memory: %w", err)
			}
		} else {
			mem = memory.New(nil)
		}
		set.docs = mem
	default:
		return nil, fmt.Errorf("unknown database driver %q", dbCfg.Driver)
	}

	qlCfg := cfg.QueryLog
	switch qlCfg.Driver {
	case "postgres":
		if pg == nil {
			set.docs.Close()
			return nil, fmt.Errorf("postgres query log requires the postgres database driver")
		}
		set.log, set.shared = pg, true
	case "memory":
		if mem == nil {
			mem = memory.New(nil)
			set.log = mem
		} else {
			set.log, set.shared = mem, true
		}
	case "redis", "valkey":
		// Valkey speaks the same protocol; one rueidis store serves both.
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:        qlCfg.Addrs,
			Username:     qlCfg.Username,
			Password:     qlCfg.Password,
			DB:           qlCfg.DB,
			KeyPrefix:    qlCfg.KeyPrefix,
			StreamMaxLen: qlCfg.StreamMaxLen,
		})
		if err != nil {
			set.docs.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		set.log = rs
	default:
		set.docs.Close()
		return nil, fmt.Errorf("unknown querylog driver %q", qlCfg.Driver)
	}

	if dbCfg.Breaker.Enabled {
		set.docs = breaker.NewDocumentStore(set.docs, breakCf, log)
		set.log = breaker.NewQueryLogStore(set.log, breakCf, log)
	}
	return &set, nil
}

func breakerConfig(c config.BreakerConfig) breaker.Config {
	return breaker.Config{
		MaxRequests:  c.MaxRequests,
		Interval:     time.Duration(c.IntervalSec) * time.Second,
		Timeout:      time.Duration(c.TimeoutSec) * time.Second,
		MinRequests:  c.MinRequests,
		FailureRatio: c.FailureRatio,
	}
}
