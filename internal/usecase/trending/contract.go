package trending

import (
	"context"

	"github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

// Documents lists documents by popularity.
type Documents interface {
	Popular(ctx context.Context, limit int) ([]document.Document, error)
}

// Searches lists the most frequent past queries.
type Searches interface {
	Top(ctx context.Context, limit int) ([]querylog.Term, error)
}
