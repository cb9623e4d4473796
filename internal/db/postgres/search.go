package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/search/result"
	"github.com/Gatanot/GaussProject/internal/domain/search/snippet"
)

// hybridSQL matches on the text-search vector OR a case-insensitive substring
// of title/body. The substring branch keeps recall for scripts the text-search
// parser does not segment (e.g. Chinese).
const hybridSQL = `
SELECT
	r.id,
	r.title,
	substring(r.content_detail from 1 for %[4]d),
	r.view_count,
	r.download_count,
	r.created_at,
	c.name,
	COALESCE(c.teacher, ''),
	u.username,
	r.tsv_content @@ q.query,
	CASE WHEN r.tsv_content @@ q.query THEN ts_rank(r.tsv_content, q.query) ELSE 0 END,
	CASE WHEN r.tsv_content @@ q.query
		THEN ts_headline($3::regconfig, r.content_detail, q.query, $4)
		ELSE ''
	END
FROM %[1]s r
JOIN %[2]s c ON r.course_id = c.id
JOIN %[3]s u ON r.user_id = u.id
CROSS JOIN plainto_tsquery($3::regconfig, $1) AS q(query)
WHERE r.tsv_content @@ q.query
	OR r.title ILIKE $2
	OR r.content_detail ILIKE $2
ORDER BY
	CASE WHEN r.tsv_content @@ q.query THEN ts_rank(r.tsv_content, q.query) + %[5]g ELSE %[6]g END DESC,
	r.view_count DESC,
	r.id ASC
LIMIT $5`

const topDocumentsSQL = `
SELECT
	r.id,
	r.title,
	r.content_detail,
	r.view_count,
	r.download_count,
	r.created_at,
	r.course_id,
	c.name,
	COALESCE(c.teacher, ''),
	r.user_id,
	u.username
FROM %[1]s r
JOIN %[2]s c ON r.course_id = c.id
JOIN %[3]s u ON r.user_id = u.id
ORDER BY (r.view_count * %[4]g + r.download_count * %[5]g) DESC, r.id ASC
LIMIT $1`

// HybridSearch runs the combined text-search/substring lookup.
func (s *Store) HybridSearch(ctx context.Context, q *db.HybridQuery) ([]db.HybridRow, error) {
	if q.Limit <= 0 {
		return nil, &db.Error{Op: db.OpHybridSearch, Err: fmt.Errorf("%w: limit must be positive", db.ErrInvalidArgs)}
	}

	query := fmt.Sprintf(hybridSQL,
		s.table("resources"), s.table("courses"), s.table("users"),
		snippet.PrefixRunes, result.TextMatchBoost, result.SubstringScore,
	)
	rows, err := s.db.QueryContext(ctx, query,
		q.Query, likePattern(q.Query), s.tsConfig, snippet.HeadlineOptions(), q.Limit,
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpHybridSearch, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []db.HybridRow
	for rows.Next() {
		var r db.HybridRow
		if err := rows.Scan(
			&r.ID, &r.Title, &r.Excerpt, &r.ViewCount, &r.DownloadCount, &r.CreatedAt,
			&r.CourseName, &r.CourseTeacher, &r.AuthorName,
			&r.TextMatch, &r.Relevance, &r.Headline,
		); err != nil {
			return nil, &db.Error{Op: db.OpHybridSearch, Err: fmt.Errorf("scan: %w", err)}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpHybridSearch, Err: err}
	}
	return out, nil
}

// TopDocuments lists documents by weighted popularity.
func (s *Store) TopDocuments(ctx context.Context, limit int) ([]document.Document, error) {
	if limit <= 0 {
		return nil, &db.Error{Op: db.OpTopDocuments, Err: fmt.Errorf("%w: limit must be positive", db.ErrInvalidArgs)}
	}

	query := fmt.Sprintf(topDocumentsSQL,
		s.table("resources"), s.table("courses"), s.table("users"),
		document.ViewWeight, document.DownloadWeight,
	)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &db.Error{Op: db.OpTopDocuments, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []document.Document
	for rows.Next() {
		var d document.Document
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Body, &d.ViewCount, &d.DownloadCount, &d.CreatedAt,
			&d.CourseID, &d.CourseName, &d.CourseTeacher, &d.AuthorID, &d.AuthorName,
		); err != nil {
			return nil, &db.Error{Op: db.OpTopDocuments, Err: fmt.Errorf("scan: %w", err)}
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpTopDocuments, Err: err}
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds an ILIKE pattern matching q as a literal substring.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
