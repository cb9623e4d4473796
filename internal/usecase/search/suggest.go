package search

import (
	"unicode/utf8"

	"github.com/Gatanot/GaussProject/internal/domain/querylog"
	"github.com/Gatanot/GaussProject/internal/textsim"
)

// MaxEdits is the largest edit distance a suggestion may have.
const MaxEdits = 2

// Suggest returns the vocabulary term closest to query. A term is a candidate
// when its distance d satisfies d <= MaxEdits and d < max(len)/2 + 1, lengths
// counted in runes. Ties keep the earlier term.
func Suggest(query string, vocab []querylog.Term) (string, bool) {
	best, bestDist := "", MaxEdits+1
	queryLen := utf8.RuneCountInString(query)

	for _, t := range vocab {
		if t.Text == query {
			continue
		}
		d := textsim.Distance(query, t.Text)
		if !accept(d, queryLen, utf8.RuneCountInString(t.Text)) {
			continue
		}
		if d < bestDist {
			best, bestDist = t.Text, d
		}
	}
	return best, best != ""
}

func accept(d, lenA, lenB int) bool {
	return d <= MaxEdits && float64(d) < float64(max(lenA, lenB))/2+1
}
