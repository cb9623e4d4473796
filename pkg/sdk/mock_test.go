package gauss

import (
	"context"

	"github.com/Gatanot/GaussProject/internal/domain/search/response"
	healthuc "github.com/Gatanot/GaussProject/internal/usecase/health"
	searchuc "github.com/Gatanot/GaussProject/internal/usecase/search"
	trendinguc "github.com/Gatanot/GaussProject/internal/usecase/trending"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn  func(ctx context.Context, req searchuc.Request) response.Response
	suggestFn func(ctx context.Context, query string) (string, bool)
}

func (m *mockSearchUC) Search(ctx context.Context, req searchuc.Request) response.Response {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) Suggest(ctx context.Context, query string) (string, bool) {
	return m.suggestFn(ctx, query)
}

// --- trendingUseCase mock ---

type mockTrendingUC struct {
	overviewFn func(ctx context.Context) trendinguc.Overview
}

func (m *mockTrendingUC) Overview(ctx context.Context) trendinguc.Overview {
	return m.overviewFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
