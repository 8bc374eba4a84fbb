// Package jobs aggregates job listings from a live provider, falling back
// to a fixed local catalog whenever the provider is unconfigured or fails.
package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/job-copilot/internal/listing"
	"go.uber.org/zap"
)

const (
	// DefaultProviderTimeout caps a single provider search.
	DefaultProviderTimeout = 8 * time.Second
	// DefaultPageSize is used when a query does not specify one.
	DefaultPageSize = 20
)

// Query is a listing search.
type Query struct {
	Text     string
	Location string
	Page     int
	PageSize int
	// Type filters by job type when non-empty.
	Type listing.JobType
}

func (q Query) normalized() Query {
	q.Text = strings.TrimSpace(q.Text)
	q.Location = strings.TrimSpace(q.Location)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Result is one page of listings together with the path that served it.
type Result struct {
	Listings []listing.Listing `json:"listings"`
	Total    int               `json:"total"`
	Source   listing.Source    `json:"source"`
	// Degraded is true when a configured provider failed and the local
	// catalog was served in its place.
	Degraded bool `json:"degraded"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
}

// AggregatorConfig tunes an Aggregator.
type AggregatorConfig struct {
	Timeout time.Duration
	Logger  *zap.Logger
}

// Aggregator serves listing searches.
type Aggregator struct {
	provider Provider
	catalog  []listing.Listing
	timeout  time.Duration
	logger   *zap.Logger
}

// NewAggregator builds an Aggregator. A nil provider means no credentials
// are configured and every search is served from the local catalog.
func NewAggregator(provider Provider, cfg AggregatorConfig) *Aggregator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultProviderTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Aggregator{
		provider: provider,
		catalog:  demoCatalog,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}
}

// Search runs q against the provider when one is configured. Provider
// failures are logged and answered from the local catalog; Search itself
// never fails.
func (a *Aggregator) Search(ctx context.Context, q Query) Result {
	q = q.normalized()

	if a.provider == nil {
		return a.searchCatalog(q)
	}

	res, err := a.searchProvider(ctx, q)
	if err == nil {
		return res
	}

	a.logger.Warn("listing provider unavailable, serving local catalog",
		zap.String("provider", a.provider.Name()),
		zap.String("query", q.Text),
		zap.Int("page", q.Page),
		zap.Error(err),
	)
	res = a.searchCatalog(q)
	res.Degraded = true
	return res
}

func (a *Aggregator) searchProvider(ctx context.Context, q Query) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	page, err := a.provider.Search(ctx, ProviderQuery{
		Text:     q.Text,
		Location: q.Location,
		Page:     q.Page,
		PageSize: q.PageSize,
		Type:     q.Type,
	})
	if err != nil {
		return Result{}, err
	}
	if page == nil {
		page = &ProviderPage{}
	}

	listings := make([]listing.Listing, 0, len(page.Records))
	for _, rec := range page.Records {
		listings = append(listings, listing.Normalize(rec, q.Location))
	}

	total := page.Count
	if total == 0 {
		total = len(listings)
	}

	return Result{
		Listings: listings,
		Total:    total,
		Source:   listing.SourceAdzuna,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

func (a *Aggregator) searchCatalog(q Query) Result {
	text := strings.ToLower(q.Text)
	location := strings.ToLower(q.Location)

	filtered := make([]listing.Listing, 0, len(a.catalog))
	for _, l := range a.catalog {
		if text != "" && !matchesText(l, text) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(l.Location), location) {
			continue
		}
		if q.Type != "" && l.JobType != q.Type {
			continue
		}
		filtered = append(filtered, l)
	}

	start := (q.Page - 1) * q.PageSize
	if start < 0 || start > len(filtered) {
		start = len(filtered)
	}
	end := len(filtered)
	if q.PageSize < end-start {
		end = start + q.PageSize
	}

	page := make([]listing.Listing, 0, end-start)
	for _, l := range filtered[start:end] {
		page = append(page, l.Clone())
	}

	return Result{
		Listings: page,
		Total:    len(filtered),
		Source:   listing.SourceDemo,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// matchesText reports whether lowered appears in the title, description or
// any tag of l, ignoring case.
func matchesText(l listing.Listing, lowered string) bool {
	if strings.Contains(strings.ToLower(l.Title), lowered) ||
		strings.Contains(strings.ToLower(l.Description), lowered) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), lowered) {
			return true
		}
	}
	return false
}

// GetByID looks id up in the local catalog only.
func (a *Aggregator) GetByID(id string) (listing.Listing, bool) {
	for _, l := range a.catalog {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return listing.Listing{}, false
}
