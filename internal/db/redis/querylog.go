package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

func (s *Store) termsKey(kind querylog.Kind) string {
	return s.keyPrefix + "querylog:" + strings.ToLower(string(kind)) + ":terms"
}

func (s *Store) streamKey() string {
	return s.keyPrefix + "querylog:events"
}

// Append adds the event to the stream and bumps its query text counter.
// Empty query texts are streamed but not counted.
func (s *Store) Append(ctx context.Context, ev querylog.Event) error {
	actor := ""
	if ev.ActorID != nil {
		actor = strconv.FormatInt(*ev.ActorID, 10)
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	cmds := make(rueidis.Commands, 0, 2)
	cmds = append(cmds, s.b().Xadd().Key(s.streamKey()).
		Maxlen().Almost().Threshold(strconv.FormatInt(s.streamMaxLen, 10)).
		Id("*").
		FieldValue().
		FieldValue("kind", string(ev.Kind)).
		FieldValue("query", ev.Query).
		FieldValue("actor", actor).
		FieldValue("addr", ev.SourceAddr).
		FieldValue("at", at.UTC().Format(time.RFC3339Nano)).
		Build())
	if querylog.Eligible(ev.Query, 1) {
		cmds = append(cmds, s.b().Zincrby().Key(s.termsKey(ev.Kind)).Increment(1).Member(ev.Query).Build())
	}

	ops := []string{db.OpXAdd, db.OpZIncrBy}
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: ops[i], Err: err}
		}
	}
	return nil
}

// TopQueries returns the most frequent query texts of the given kind.
// The sorted set holds every non-empty text, so texts shorter than MinLen are
// skipped while paging through it.
func (s *Store) TopQueries(ctx context.Context, q *db.TopQuery) ([]querylog.Term, error) {
	if q.Limit <= 0 {
		return nil, &db.Error{Op: db.OpTopQueries, Err: fmt.Errorf("%w: limit must be positive", db.ErrInvalidArgs)}
	}

	key := s.termsKey(q.Kind)
	page := int64(q.Limit)
	terms := make([]querylog.Term, 0, q.Limit)

	for start := int64(0); len(terms) < q.Limit; start += page {
		cmd := s.b().Zrevrange().Key(key).Start(start).Stop(start + page - 1).Withscores().Build()
		scores, err := s.do(ctx, cmd).AsZScores()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				break
			}
			return nil, &db.Error{Op: db.OpZRevRange, Err: err}
		}
		for _, z := range scores {
			if !querylog.Eligible(z.Member, q.MinLen) {
				continue
			}
			terms = append(terms, querylog.Term{Text: z.Member, Frequency: int64(z.Score)})
			if len(terms) == q.Limit {
				break
			}
		}
		if int64(len(scores)) < page {
			break
		}
	}
	return terms, nil
}
