package memory

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// token is a word of the source text with its byte span.
// lexeme is empty for stopwords.
type token struct {
	start, end int
	lexeme     string
}

// analyzer splits text into words, drops stopwords and stems the rest,
// roughly what an "english" text-search configuration does.
type analyzer struct {
	stop map[string]struct{}
}

func newAnalyzer() *analyzer {
	return &analyzer{stop: defaultStopwords()}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (a *analyzer) tokens(text string) []token {
	var out []token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		out = append(out, token{start: start, end: end, lexeme: a.lexeme(text[start:end])})
		start = -1
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return out
}

func (a *analyzer) lexeme(word string) string {
	w := strings.ToLower(word)
	if _, bad := a.stop[w]; bad {
		return ""
	}
	return english.Stem(w, true)
}

// lexemes returns the distinct non-stopword lexemes of text in order of
// first appearance.
func (a *analyzer) lexemes(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range a.tokens(text) {
		if t.lexeme == "" {
			continue
		}
		if _, dup := seen[t.lexeme]; dup {
			continue
		}
		seen[t.lexeme] = struct{}{}
		out = append(out, t.lexeme)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	ws := []string{
		"a", "an", "the", "and", "or", "but",
		"to", "in", "of", "on", "for", "with", "as", "at", "by", "from",
		"is", "are", "was", "were", "be", "been", "being",
		"this", "that", "these", "those", "it", "its",
		"i", "me", "my", "we", "our", "you", "your",
		"he", "him", "his", "she", "her", "they", "them", "their",
		"do", "does", "did", "have", "has", "had",
		"not", "no", "nor", "so", "than", "too", "very",
		"can", "will", "just", "if", "then", "into", "about",
	}
	m := make(map[string]struct{}, len(ws))
	for _, w := range ws {
		m[w] = struct{}{}
	}
	return m
}
