package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank query. Callers short-circuit with an empty response.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidArgument signals a malformed request parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStoreUnavailable signals a failed ranking or sampling query.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrLogWriteFailed signals a failed query-log append.
	ErrLogWriteFailed = errors.New("query log write failed")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// SearchFailedMessage is the soft error shown to users when ranking fails.
const SearchFailedMessage = "search failed, please try again later"
