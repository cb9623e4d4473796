package logger

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// MaxQueryFieldRunes caps how much of a search query lands in a log line.
const MaxQueryFieldRunes = 128

// Query returns the "query" field, truncated to MaxQueryFieldRunes runes.
func Query(q string) zap.Field {
	if utf8.RuneCountInString(q) > MaxQueryFieldRunes {
		q = string([]rune(q)[:MaxQueryFieldRunes]) + "…"
	}
	return zap.String("query", q)
}

// Actor returns the "actor_id" field, or a skipped field for anonymous users.
func Actor(id *int64) zap.Field {
	if id == nil {
		return zap.Skip()
	}
	return zap.Int64("actor_id", *id)
}
