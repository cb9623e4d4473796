package response

import "github.com/Gatanot/GaussProject/internal/domain/search/result"

// Response is the outcome of a single search request.
type Response struct {
	Query   string
	Results []result.Result
	// Total is the number of returned results, not a global match count.
	Total int
	// Suggestion is empty when no correction is offered.
	Suggestion string
	// Error is a user-visible soft error; empty on success.
	Error string
}

// Empty returns a response with no results for query.
func Empty(query string) Response {
	return Response{Query: query, Results: []result.Result{}}
}

// HasSuggestion reports whether a spelling correction is offered.
func (r *Response) HasSuggestion() bool { return r.Suggestion != "" }

// Failed reports whether the search degraded due to a store error.
func (r *Response) Failed() bool { return r.Error != "" }
