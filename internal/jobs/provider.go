package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/job-copilot/internal/listing"
)

// ErrNotConfigured is returned when a provider is built without credentials.
var ErrNotConfigured = errors.New("listing provider credentials are not configured")

// ProviderQuery is the search a provider is asked to run.
type ProviderQuery struct {
	Text     string
	Location string
	Page     int
	PageSize int
	Type     listing.JobType
}

// ProviderPage is one page of raw provider results.
type ProviderPage struct {
	Records []listing.Record
	// Count is the provider-reported total, or 0 when it did not report one.
	Count int
}

// Provider is an external source of live job listings.
type Provider interface {
	Name() string
	Search(ctx context.Context, q ProviderQuery) (*ProviderPage, error)
}

// ProviderError describes a failed provider call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
