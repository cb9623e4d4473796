package db

import (
	"time"

	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

// HybridQuery is the input of the combined text-search/substring lookup.
// Query is the trimmed raw user text; stores escape it as needed.
type HybridQuery struct {
	Query string
	Limit int
}

// HybridRow is a single matched document.
type HybridRow struct {
	ID            int64
	Title         string
	Excerpt       string // body prefix, at least snippet.PrefixRunes runes when available
	ViewCount     int64
	DownloadCount int64
	CreatedAt     time.Time
	CourseName    string
	CourseTeacher string
	AuthorName    string
	TextMatch     bool    // text-search predicate matched
	Relevance     float64 // text-search relevance, 0 when TextMatch is false
	Headline      string  // highlighted excerpt, empty when TextMatch is false
}

// TopQuery is the input of a query-log aggregation.
type TopQuery struct {
	Kind   querylog.Kind
	Limit  int
	MinLen int // minimum text length in runes
}
