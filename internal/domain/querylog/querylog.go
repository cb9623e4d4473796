// Package querylog models the append-only action log the search core writes
// to and samples its vocabulary from.
package querylog

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Kind is the action type of a log entry.
type Kind string

// KindSearch marks a free-text search.
const KindSearch Kind = "SEARCH"

// Event is an immutable log entry.
type Event struct {
	Kind       Kind
	Query      string
	ActorID    *int64 // nil for anonymous users
	SourceAddr string
	At         time.Time
}

// NewSearchEvent creates a SEARCH event.
func NewSearchEvent(query string, actorID *int64, sourceAddr string, at time.Time) Event {
	return Event{
		Kind:       KindSearch,
		Query:      query,
		ActorID:    actorID,
		SourceAddr: sourceAddr,
		At:         at,
	}
}

// Term is an aggregated query text with its occurrence count.
type Term struct {
	Text      string
	Frequency int64
}

// Eligible reports whether text can appear in a vocabulary whose terms
// must be at least minLen runes long. Empty text is never eligible.
func Eligible(text string, minLen int) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return utf8.RuneCountInString(text) >= minLen
}

// MoreFrequent orders terms by frequency desc, then text asc.
func MoreFrequent(a, b Term) bool {
	if a.Frequency != b.Frequency {
		return a.Frequency > b.Frequency
	}
	return a.Text < b.Text
}
