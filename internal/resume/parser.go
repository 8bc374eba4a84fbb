package resume

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-copilot/internal/llm"
)

// Parser converts resume text into a ParsedProfileFragment.
type Parser interface {
	Parse(ctx context.Context, text string) (*ParsedProfileFragment, error)
}

// Options configures the service-backed parser.
type Options struct {
	// Timeout bounds one service call. Zero means llm.DefaultTimeout.
	Timeout time.Duration
	// Tier selects the model tier; empty means llm.TierStandard.
	Tier llm.ModelTier
}

// NewParser picks the implementation once: a nil client yields the
// deterministic parser, anything else the service parser. A failing
// service is never silently replaced by the deterministic parser.
func NewParser(client llm.Client, opts Options) Parser {
	if client == nil {
		return NewDeterministicParser()
	}
	return NewServiceParser(client, opts)
}

// ServiceError is returned when the text-understanding service fails or
// answers with something that is not a valid fragment.
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume service: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("resume service: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
