package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/job-copilot/internal/fetch"
	"github.com/jonathan/job-copilot/internal/listing"
)

const (
	// DefaultAdzunaBaseURL is the Adzuna jobs API root.
	DefaultAdzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"
	// DefaultAdzunaCountry is used when no country is configured.
	DefaultAdzunaCountry = "us"

	// placeholderAppID ships in example env files and counts as unset.
	placeholderAppID = "your_adzuna_app_id"
)

// AdzunaConfig holds the credentials and endpoint for the Adzuna API.
type AdzunaConfig struct {
	AppID   string
	AppKey  string
	Country string
	BaseURL string
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Configured reports whether usable credentials are present.
func (c AdzunaConfig) Configured() bool {
	return c.AppID != "" && c.AppKey != "" && c.AppID != placeholderAppID
}

// AdzunaProvider searches the Adzuna jobs API.
type AdzunaProvider struct {
	cfg AdzunaConfig
}

// NewAdzunaProvider returns ErrNotConfigured when credentials are missing.
func NewAdzunaProvider(cfg AdzunaConfig) (*AdzunaProvider, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if cfg.Country == "" {
		cfg.Country = DefaultAdzunaCountry
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAdzunaBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &AdzunaProvider{cfg: cfg}, nil
}

// Name implements Provider.
func (p *AdzunaProvider) Name() string {
	return string(listing.SourceAdzuna)
}

type adzunaResponse struct {
	Results *[]json.RawMessage `json:"results"`
	Count   any                `json:"count"`
}

// Search implements Provider. The caller's context bounds the request.
func (p *AdzunaProvider) Search(ctx context.Context, q ProviderQuery) (*ProviderPage, error) {
	endpoint := p.searchURL(q)

	opts := fetch.DefaultOptions()
	opts.Client = p.cfg.HTTPClient

	var body adzunaResponse
	if _, err := fetch.JSON(ctx, endpoint, opts, &body); err != nil {
		perr := &ProviderError{Provider: p.Name(), Message: "search request failed", Cause: err}
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			perr.StatusCode = fetchErr.StatusCode
		}
		return nil, perr
	}
	if body.Results == nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "response has no results array"}
	}

	page := &ProviderPage{
		Records: make([]listing.Record, 0, len(*body.Results)),
		Count:   countValue(body.Count),
	}
	for _, raw := range *body.Results {
		rec := listing.Record{}
		// A record that is not an object degrades to an all-defaults listing.
		_ = json.Unmarshal(raw, &rec)
		page.Records = append(page.Records, rec)
	}
	return page, nil
}

func (p *AdzunaProvider) searchURL(q ProviderQuery) string {
	params := url.Values{}
	params.Set("app_id", p.cfg.AppID)
	params.Set("app_key", p.cfg.AppKey)
	params.Set("results_per_page", strconv.Itoa(q.PageSize))
	params.Set("where", q.Location)
	params.Set("content-type", "application/json")

	// Adzuna only has flags for three employment types. Internship and
	// remote become search keywords, so count stays Adzuna's own total.
	what := q.Text
	switch q.Type {
	case listing.JobTypeFullTime:
		params.Set("full_time", "1")
	case listing.JobTypePartTime:
		params.Set("part_time", "1")
	case listing.JobTypeContract:
		params.Set("contract", "1")
	case listing.JobTypeInternship, listing.JobTypeRemote:
		what = strings.TrimSpace(what + " " + string(q.Type))
	}
	params.Set("what", what)

	return fmt.Sprintf("%s/%s/search/%d?%s",
		p.cfg.BaseURL, url.PathEscape(p.cfg.Country), q.Page, params.Encode())
}

func countValue(v any) int {
	switch n := v.(type) {
	case float64:
		if n >= float64(math.MaxInt) {
			return math.MaxInt
		}
		if n > 0 {
			return int(n)
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil && i > 0 {
			return i
		}
	}
	return 0
}
