package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

const appendSQL = `
INSERT INTO %s (user_id, action_type, payload, ip_addr)
VALUES ($1, $2, $3, $4::inet)`

const topQueriesSQL = `
SELECT payload, count(*) AS freq
FROM %s
WHERE action_type = $1
	AND payload IS NOT NULL
	AND payload <> ''
	AND char_length(payload) >= $2
GROUP BY payload
ORDER BY freq DESC, payload ASC
LIMIT $3`

// Append inserts an action log row. The row timestamp is assigned by the
// database. Addresses that do not parse as IPs are stored as NULL.
func (s *Store) Append(ctx context.Context, ev querylog.Event) error {
	var actor sql.NullInt64
	if ev.ActorID != nil {
		actor = sql.NullInt64{Int64: *ev.ActorID, Valid: true}
	}
	var addr sql.NullString
	if ip := net.ParseIP(ev.SourceAddr); ip != nil {
		addr = sql.NullString{String: ip.String(), Valid: true}
	}
	var payload sql.NullString
	if ev.Query != "" {
		payload = sql.NullString{String: ev.Query, Valid: true}
	}

	query := fmt.Sprintf(appendSQL, s.table("action_logs"))
	if _, err := s.db.ExecContext(ctx, query, actor, string(ev.Kind), payload, addr); err != nil {
		return &db.Error{Op: db.OpAppend, Err: err}
	}
	return nil
}

// TopQueries aggregates payloads of the given kind by count.
func (s *Store) TopQueries(ctx context.Context, q *db.TopQuery) ([]querylog.Term, error) {
	if q.Limit <= 0 {
		return nil, &db.Error{Op: db.OpTopQueries, Err: fmt.Errorf("%w: limit must be positive", db.ErrInvalidArgs)}
	}
	minLen := q.MinLen
	if minLen < 1 {
		minLen = 1
	}

	query := fmt.Sprintf(topQueriesSQL, s.table("action_logs"))
	rows, err := s.db.QueryContext(ctx, query, string(q.Kind), minLen, q.Limit)
	if err != nil {
		return nil, &db.Error{Op: db.OpTopQueries, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []querylog.Term
	for rows.Next() {
		var t querylog.Term
		if err := rows.Scan(&t.Text, &t.Frequency); err != nil {
			return nil, &db.Error{Op: db.OpTopQueries, Err: fmt.Errorf("scan: %w", err)}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpTopQueries, Err: err}
	}
	return out, nil
}
