package document

import (
	"context"
	"fmt"

	"github.com/Gatanot/GaussProject/internal/domain"
	domdoc "github.com/Gatanot/GaussProject/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	TopDocuments(ctx context.Context, limit int) ([]domdoc.Document, error)
}

// Repo implements usecase/trending.Documents.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Popular returns the limit most popular documents.
func (r *Repo) Popular(ctx context.Context, limit int) ([]domdoc.Document, error) {
	docs, err := r.store.TopDocuments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: top documents: %w", domain.ErrStoreUnavailable, err)
	}
	if docs == nil {
		docs = []domdoc.Document{}
	}
	return docs, nil
}
