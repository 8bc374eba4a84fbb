package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/job-copilot/internal/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// stubProvider is a Provider whose behavior is set per test.
type stubProvider struct {
	page  *ProviderPage
	err   error
	block bool
	calls int
	last  ProviderQuery
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(ctx context.Context, q ProviderQuery) (*ProviderPage, error) {
	p.calls++
	p.last = q
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.page, p.err
}

func ids(listings []listing.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestSearch_NoProviderAlwaysServesDemo(t *testing.T) {
	agg := NewAggregator(nil, AggregatorConfig{})

	queries := []Query{
		{},
		{Text: "engineer"},
		{Text: "nothing-matches-this"},
		{Text: "react", Location: "remote", Page: 3, PageSize: 1},
		{Type: listing.JobTypeInternship},
	}

	for _, q := range queries {
		res := agg.Search(context.Background(), q)
		assert.Equal(t, listing.SourceDemo, res.Source, "query %+v", q)
		assert.False(t, res.Degraded)
		assert.NotNil(t, res.Listings)
	}
}

func TestSearch_CatalogFilters(t *testing.T) {
	agg := NewAggregator(nil, AggregatorConfig{})

	tests := []struct {
		name    string
		query   Query
		wantIDs []string
	}{
		{name: "empty query returns all in order", query: Query{}, wantIDs: []string{"mock1", "mock2", "mock3", "mock4", "mock5", "mock6", "mock7", "mock8"}},
		{name: "title match is case-insensitive", query: Query{Text: "ENGINEER"}, wantIDs: []string{"mock2", "mock4", "mock7"}},
		{name: "tag match", query: Query{Text: "react"}, wantIDs: []string{"mock1", "mock3", "mock6", "mock8"}},
		{name: "description match", query: Query{Text: "terraform"}, wantIDs: []string{"mock4"}},
		{name: "location substring", query: Query{Location: "ca"}, wantIDs: []string{"mock1", "mock8"}},
		{name: "type exact match", query: Query{Type: listing.JobTypeRemote}, wantIDs: []string{"mock2", "mock6"}},
		{name: "combined filters", query: Query{Text: "react", Type: listing.JobTypeRemote}, wantIDs: []string{"mock6"}},
		{name: "no matches", query: Query{Text: "cobol"}, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.PageSize = 50
			res := agg.Search(context.Background(), tt.query)
			assert.Equal(t, tt.wantIDs, ids(res.Listings))
			assert.Equal(t, len(tt.wantIDs), res.Total)
		})
	}
}

func TestSearch_CatalogPaginationTotalIsFilteredCount(t *testing.T) {
	agg := NewAggregator(nil, AggregatorConfig{})

	tests := []struct {
		page, size int
		wantIDs    []string
	}{
		{page: 1, size: 2, wantIDs: []string{"mock2", "mock4"}},
		{page: 2, size: 2, wantIDs: []string{"mock7"}},
		{page: 2, size: 3, wantIDs: []string{}},
		{page: 9, size: 3, wantIDs: []string{}},
		{page: 0, size: 0, wantIDs: []string{"mock2", "mock4", "mock7"}},
	}

	for _, tt := range tests {
		res := agg.Search(context.Background(), Query{Text: "engineer", Page: tt.page, PageSize: tt.size})
		assert.Equal(t, 3, res.Total, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.wantIDs, ids(res.Listings), "page=%d size=%d", tt.page, tt.size)
		assert.LessOrEqual(t, len(res.Listings), max(tt.size, DefaultPageSize))
	}
}

func TestSearch_ProviderSuccessNormalizes(t *testing.T) {
	provider := &stubProvider{page: &ProviderPage{
		Records: []listing.Record{
			{"id": "a1", "title": "Go Developer", "contract_type": "permanent"},
			{"id": "a2", "title": "Intern", "contract_type": "internship", "location": map[string]any{"display_name": "Leeds"}},
		},
		Count: 240,
	}}
	agg := NewAggregator(provider, AggregatorConfig{})

	res := agg.Search(context.Background(), Query{Text: "go", Location: "Denver", Page: 2, PageSize: 2})

	assert.Equal(t, listing.SourceAdzuna, res.Source)
	assert.False(t, res.Degraded)
	assert.Equal(t, 240, res.Total)
	require.Len(t, res.Listings, 2)
	assert.Equal(t, "Denver", res.Listings[0].Location)
	assert.Equal(t, "Leeds", res.Listings[1].Location)
	assert.Equal(t, listing.JobTypeInternship, res.Listings[1].JobType)
	assert.Equal(t, ProviderQuery{Text: "go", Location: "Denver", Page: 2, PageSize: 2}, provider.last)
}

func TestSearch_ProviderMissingCountUsesPageLength(t *testing.T) {
	provider := &stubProvider{page: &ProviderPage{Records: []listing.Record{{"id": "x"}}}}
	agg := NewAggregator(provider, AggregatorConfig{})

	res := agg.Search(context.Background(), Query{Text: "x"})
	assert.Equal(t, 1, res.Total)
}

func TestSearch_ProviderFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	provider := &stubProvider{err: &ProviderError{Provider: "stub", StatusCode: 500, Message: "boom"}}
	agg := NewAggregator(provider, AggregatorConfig{Logger: zap.New(core)})

	res := agg.Search(context.Background(), Query{Text: "engineer", PageSize: 10})

	assert.Equal(t, listing.SourceDemo, res.Source)
	assert.True(t, res.Degraded)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, provider.calls)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "stub", logs.All()[0].ContextMap()["provider"])
}

func TestSearch_ProviderTimeoutFallsBack(t *testing.T) {
	provider := &stubProvider{block: true}
	agg := NewAggregator(provider, AggregatorConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	res := agg.Search(context.Background(), Query{})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, listing.SourceDemo, res.Source)
	assert.True(t, res.Degraded)
}

func TestSearch_PlainProviderErrorFallsBack(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection reset")}
	agg := NewAggregator(provider, AggregatorConfig{})

	res := agg.Search(context.Background(), Query{})
	assert.Equal(t, listing.SourceDemo, res.Source)
	assert.Len(t, res.Listings, 8)
}

func TestGetByID(t *testing.T) {
	provider := &stubProvider{}
	agg := NewAggregator(provider, AggregatorConfig{})

	got, ok := agg.GetByID("mock5")
	require.True(t, ok)
	assert.Equal(t, "Data Scientist", got.Title)
	assert.Equal(t, 0, provider.calls, "lookups never hit the provider")

	_, ok = agg.GetByID("4512345678")
	assert.False(t, ok)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	first := Catalog()
	first[0].Title = "changed"
	first[0].Tags[0] = "changed"

	again := Catalog()
	assert.Equal(t, "Senior Frontend Developer", again[0].Title)
	assert.Equal(t, "React", again[0].Tags[0])
	assert.Len(t, again, 8)
	for _, l := range again {
		assert.Equal(t, listing.SourceDemo, l.Source)
		assert.True(t, l.JobType.Valid())
	}
}
