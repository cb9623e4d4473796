// Package generated holds the HTTP API types and the chi router glue for
// the search API. It follows the layout oapi-codegen emits so handlers stay
// decoupled from parameter binding.
package generated

import "time"

// ErrorResponseCode enumerates machine-readable error codes.
type ErrorResponseCode string

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeRateLimited      ErrorResponseCode = "rate_limited"
	ErrorResponseCodeStoreUnavailable ErrorResponseCode = "store_unavailable"
	ErrorResponseCodeNotImplemented   ErrorResponseCode = "not_implemented"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// HealthResponseStatus defines model for HealthResponse.Status.
type HealthResponseStatus string

// Defines values for HealthResponseStatus.
const (
	HealthResponseStatusOk       HealthResponseStatus = "ok"
	HealthResponseStatusDegraded HealthResponseStatus = "degraded"
	HealthResponseStatusError    HealthResponseStatus = "error"
)

// HealthResponseChecks defines model for HealthResponse.Checks.
type HealthResponseChecks string

// Defines values for HealthResponseChecks.
const (
	HealthResponseChecksOk    HealthResponseChecks = "ok"
	HealthResponseChecksError HealthResponseChecks = "error"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
}

// SearchResult defines model for SearchResult.
type SearchResult struct {
	Id            int64     `json:"id"`
	Title         string    `json:"title"`
	Snippet       string    `json:"snippet"`
	Score         float64   `json:"score"`
	CourseName    string    `json:"course_name"`
	CourseTeacher string    `json:"course_teacher,omitempty"`
	AuthorName    string    `json:"author_name"`
	ViewCount     int64     `json:"view_count"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// SearchResponse defines model for SearchResponse.
type SearchResponse struct {
	Query      string         `json:"query"`
	Results    []SearchResult `json:"results"`
	Total      int            `json:"total"`
	Suggestion *string        `json:"suggestion"`
	Error      *string        `json:"error,omitempty"`
}

// SuggestResponse defines model for SuggestResponse.
type SuggestResponse struct {
	Query      string  `json:"query"`
	Suggestion *string `json:"suggestion"`
}

// HotResource defines model for HotResource.
type HotResource struct {
	Id            int64     `json:"id"`
	Title         string    `json:"title"`
	CourseName    string    `json:"course_name"`
	AuthorName    string    `json:"author_name"`
	ViewCount     int64     `json:"view_count"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// HotSearch defines model for HotSearch.
type HotSearch struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// TrendingResponse defines model for TrendingResponse.
type TrendingResponse struct {
	Resources []HotResource `json:"resources"`
	Searches  []HotSearch   `json:"searches"`
}

// SearchParams defines parameters for Search.
type SearchParams struct {
	// Q is the free-text query. Missing or blank yields an empty result set.
	Q *string `form:"q,omitempty" json:"q,omitempty"`
	// Limit caps the number of results.
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// SuggestParams defines parameters for Suggest.
type SuggestParams struct {
	Q string `form:"q" json:"q"`
}
