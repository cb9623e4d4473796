package db

import "errors"

// Sentinel errors for store operations.
var (
	ErrNotReady    = errors.New("db: store not ready")
	ErrInvalidArgs = errors.New("db: invalid arguments")
)

// Op constants name store operations for error context.
const (
	OpPing         = "PING"
	OpHybridSearch = "HYBRID_SEARCH"
	OpTopDocuments = "TOP_DOCUMENTS"
	OpAppend       = "APPEND"
	OpTopQueries   = "TOP_QUERIES"
	OpZIncrBy      = "ZINCRBY"
	OpXAdd         = "XADD"
	OpZRevRange    = "ZREVRANGE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
