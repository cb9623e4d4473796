package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Gatanot/GaussProject/internal/domain"
	"github.com/Gatanot/GaussProject/internal/domain/search/response"
	gen "github.com/Gatanot/GaussProject/internal/transport/generated"
	healthuc "github.com/Gatanot/GaussProject/internal/usecase/health"
	searchuc "github.com/Gatanot/GaussProject/internal/usecase/search"
	trendinguc "github.com/Gatanot/GaussProject/internal/usecase/trending"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements generated.ServerInterface for the chi router.
type Server struct {
	gen.Unimplemented
	search        *searchuc.Service
	trending      *trendinguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	trending *trendinguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		trending: trending,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, gen.ErrorResponseCodeRateLimited),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, gen.ErrorResponseCodeStoreUnavailable),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, gen.ErrorResponseCodeNotImplemented),
	}
	return s
}

// Search handles GET /search. Store failures still answer 200 with the
// soft error field set, so pages render an empty list.
func (s *Server) Search(w http.ResponseWriter, r *http.Request, params gen.SearchParams) {
	req := searchuc.Request{
		ActorID:    ActorFromContext(r.Context()),
		SourceAddr: sourceAddr(r),
	}
	if params.Q != nil {
		req.Query = *params.Q
	}
	if params.Limit != nil {
		if *params.Limit < 0 {
			s.handleDomainError(w, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidArgument))
			return
		}
		req.Limit = *params.Limit
	}

	resp := s.search.Search(r.Context(), req)
	writeJSON(w, http.StatusOK, searchResponseToGen(&resp))
}

// Suggest handles GET /suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request, params gen.SuggestParams) {
	out := gen.SuggestResponse{Query: params.Q}
	if suggestion, ok := s.search.Suggest(r.Context(), params.Q); ok {
		out.Suggestion = &suggestion
	}
	writeJSON(w, http.StatusOK, out)
}

// Trending handles GET /trending.
func (s *Server) Trending(w http.ResponseWriter, r *http.Request) {
	o := s.trending.Overview(r.Context())

	out := gen.TrendingResponse{
		Resources: make([]gen.HotResource, 0, len(o.Documents)),
		Searches:  make([]gen.HotSearch, 0, len(o.Searches)),
	}
	for i := range o.Documents {
		d := &o.Documents[i]
		out.Resources = append(out.Resources, gen.HotResource{
			Id:            d.ID,
			Title:         d.Title,
			CourseName:    d.CourseName,
			AuthorName:    d.AuthorName,
			ViewCount:     d.ViewCount,
			DownloadCount: d.DownloadCount,
			CreatedAt:     d.CreatedAt,
		})
	}
	for _, t := range o.Searches {
		out.Searches = append(out.Searches, gen.HotSearch{Query: t.Text, Count: t.Frequency})
	}
	writeJSON(w, http.StatusOK, out)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	status := gen.HealthResponseStatus(report.Status)
	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: status,
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParamErrorHandler answers binding failures from the generated wrapper.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *gen.InvalidParamFormatError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "invalid parameter: "+pe.ParamName)
		return
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "invalid request")
}

func searchResponseToGen(resp *response.Response) gen.SearchResponse {
	out := gen.SearchResponse{
		Query:   resp.Query,
		Results: make([]gen.SearchResult, 0, len(resp.Results)),
		Total:   resp.Total,
	}
	for i := range resp.Results {
		res := &resp.Results[i]
		out.Results = append(out.Results, gen.SearchResult{
			Id:            res.ID(),
			Title:         res.Title(),
			Snippet:       res.Snippet(),
			Score:         res.Score(),
			CourseName:    res.CourseName(),
			CourseTeacher: res.CourseTeacher(),
			AuthorName:    res.AuthorName(),
			ViewCount:     res.ViewCount(),
			DownloadCount: res.DownloadCount(),
			CreatedAt:     res.CreatedAt(),
		})
	}
	if resp.HasSuggestion() {
		suggestion := resp.Suggestion
		out.Suggestion = &suggestion
	}
	if resp.Failed() {
		msg := resp.Error
		out.Error = &msg
	}
	return out
}

// sourceAddr returns the client IP without port. chi's RealIP middleware has
// already replaced RemoteAddr when proxy headers are trusted.
func sourceAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrRateLimited,
		domain.ErrStoreUnavailable,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}
