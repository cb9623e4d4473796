// Package trending builds the home-page overview of hot resources and
// hot searches.
package trending

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
	"github.com/Gatanot/GaussProject/internal/logger"
)

// DefaultSize is the length of each list.
const DefaultSize = 5

// Overview is the home-page data. Lists are never nil.
type Overview struct {
	Documents []document.Document
	Searches  []querylog.Term
}

// Service assembles overviews.
type Service struct {
	docs     Documents
	searches Searches
	size     int
}

// New creates a trending service. size <= 0 selects DefaultSize.
func New(docs Documents, searches Searches, size int) *Service {
	if size <= 0 {
		size = DefaultSize
	}
	return &Service{docs: docs, searches: searches, size: size}
}

// Overview degrades each list to empty on error so the page still renders.
func (s *Service) Overview(ctx context.Context) Overview {
	log := logger.FromContext(ctx)
	out := Overview{Documents: []document.Document{}, Searches: []querylog.Term{}}

	if docs, err := s.docs.Popular(ctx, s.size); err != nil {
		log.Warn("hot documents unavailable", zap.Error(err))
	} else if docs != nil {
		out.Documents = docs
	}

	if terms, err := s.searches.Top(ctx, s.size); err != nil {
		log.Warn("hot searches unavailable", zap.Error(err))
	} else if terms != nil {
		out.Searches = terms
	}
	return out
}
