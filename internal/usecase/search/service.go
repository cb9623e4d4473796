package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Gatanot/GaussProject/internal/domain"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
	"github.com/Gatanot/GaussProject/internal/domain/search/response"
	"github.com/Gatanot/GaussProject/internal/logger"
	"github.com/Gatanot/GaussProject/internal/metrics"
)

// Defaults for Config fields left zero.
const (
	DefaultLimit          = 20
	DefaultMaxLimit       = 100
	DefaultVocabularySize = 50
)

// Config bounds result sets and the suggestion vocabulary.
type Config struct {
	DefaultLimit   int
	MaxLimit       int
	VocabularySize int
}

func (c Config) withDefaults() Config {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = DefaultMaxLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	if c.VocabularySize <= 0 {
		c.VocabularySize = DefaultVocabularySize
	}
	return c
}

// Request is a single search call.
type Request struct {
	Query      string
	Limit      int    // 0 selects the default
	ActorID    *int64 // nil for anonymous users
	SourceAddr string
}

// Service ranks documents, suggests corrections for zero-result queries and
// records every non-empty query.
type Service struct {
	ranker   Ranker
	sampler  Sampler
	recorder Recorder
	cfg      Config

	suggest func(query string, vocab []querylog.Term) (string, bool)
	now     func() time.Time
}

// New creates a search service.
func New(ranker Ranker, sampler Sampler, recorder Recorder, cfg Config) *Service {
	return &Service{
		ranker:   ranker,
		sampler:  sampler,
		recorder: recorder,
		cfg:      cfg.withDefaults(),
		suggest:  Suggest,
		now:      time.Now,
	}
}

// Search never fails: store errors become a soft error message in the response.
func (s *Service) Search(ctx context.Context, req Request) response.Response {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		return response.Empty("")
	}

	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()
	defer s.recorder.Record(ctx, querylog.NewSearchEvent(query, req.ActorID, req.SourceAddr, s.now()))

	results, err := s.ranker.Rank(ctx, query, s.Limit(req.Limit))
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		logger.FromContext(ctx).Error("search failed", logger.Query(query), logger.Actor(req.ActorID), zap.Error(err))
		resp := response.Empty(query)
		resp.Error = domain.SearchFailedMessage
		return resp
	}

	if len(results) > 0 {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeHit).Inc()
		return response.Response{Query: query, Results: results, Total: len(results)}
	}

	metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeMiss).Inc()
	resp := response.Empty(query)
	resp.Suggestion, _ = s.suggestFor(ctx, query)
	return resp
}

// Suggest proposes a correction for query from the current vocabulary
// without ranking or recording anything.
func (s *Service) Suggest(ctx context.Context, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}
	return s.suggestFor(ctx, query)
}

// Limit resolves a requested limit: non-positive selects the default, and
// the result never exceeds MaxLimit.
func (s *Service) Limit(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultLimit
	}
	return min(requested, s.cfg.MaxLimit)
}

func (s *Service) suggestFor(ctx context.Context, query string) (string, bool) {
	vocab := s.sampler.Sample(ctx, s.cfg.VocabularySize)
	if len(vocab) == 0 {
		metrics.SuggestionsTotal.WithLabelValues("none").Inc()
		return "", false
	}
	suggestion, ok := s.suggest(query, vocab)
	if ok {
		metrics.SuggestionsTotal.WithLabelValues("offered").Inc()
	} else {
		metrics.SuggestionsTotal.WithLabelValues("none").Inc()
	}
	return suggestion, ok
}
