package search

import (
	"context"
	"fmt"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain"
	"github.com/Gatanot/GaussProject/internal/domain/search/result"
	"github.com/Gatanot/GaussProject/internal/domain/search/snippet"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	HybridSearch(ctx context.Context, q *db.HybridQuery) ([]db.HybridRow, error)
}

// Repo implements usecase/search.Ranker.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Rank runs the hybrid lookup and projects rows into ordered results capped at limit.
func (r *Repo) Rank(ctx context.Context, query string, limit int) ([]result.Result, error) {
	rows, err := r.store.HybridSearch(ctx, &db.HybridQuery{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("%w: hybrid search: %w", domain.ErrStoreUnavailable, err)
	}

	results := make([]result.Result, 0, len(rows))
	for i := range rows {
		results = append(results, toResult(&rows[i]))
	}

	// Stores already order rows; re-sorting keeps the contract independent of the driver.
	result.Sort(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func toResult(row *db.HybridRow) result.Result {
	return result.New(
		row.ID,
		row.Title,
		snippet.Choose(row.TextMatch, row.Headline, row.Excerpt),
		result.ScoreFor(row.TextMatch, row.Relevance),
		result.Meta{
			CourseName:    row.CourseName,
			CourseTeacher: row.CourseTeacher,
			AuthorName:    row.AuthorName,
			ViewCount:     row.ViewCount,
			DownloadCount: row.DownloadCount,
			CreatedAt:     row.CreatedAt,
		},
	)
}
