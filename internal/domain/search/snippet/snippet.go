// Package snippet holds the excerpt rules shared by all document stores.
package snippet

import "fmt"

// Highlight markers and window bounds for text-search headlines.
const (
	MarkStart = "<mark>"
	MarkStop  = "</mark>"
	MinWords  = 15
	MaxWords  = 35
)

// Prefix excerpt rules for substring-only hits.
const (
	PrefixRunes = 120
	Ellipsis    = "..."
)

// HeadlineOptions renders the window and markers in ts_headline option syntax.
func HeadlineOptions() string {
	return fmt.Sprintf("StartSel = %s, StopSel = %s, MaxWords=%d, MinWords=%d",
		MarkStart, MarkStop, MaxWords, MinWords)
}

// Prefix returns the first PrefixRunes runes of body followed by Ellipsis.
// The ellipsis is appended even to short bodies.
func Prefix(body string) string {
	n := 0
	for i := range body {
		if n == PrefixRunes {
			return body[:i] + Ellipsis
		}
		n++
	}
	return body + Ellipsis
}

// Choose picks the headline for text-search hits and the body prefix otherwise.
func Choose(textMatch bool, headline, body string) string {
	if textMatch && headline != "" {
		return headline
	}
	return Prefix(body)
}
