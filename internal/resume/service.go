package resume

import (
	"context"
	"encoding/json"

	"github.com/jonathan/job-copilot/internal/llm"
	"github.com/jonathan/job-copilot/internal/prompts"
	"github.com/jonathan/job-copilot/internal/schemas"
)

// MaxServiceInputRunes is how much of the resume is sent to the service.
const MaxServiceInputRunes = 6000

const (
	promptFile = "resume.json"
	promptKey  = "parse-resume"
)

// ServiceParser delegates parsing to a text-understanding service.
type ServiceParser struct {
	client llm.Client
	opts   Options
}

// NewServiceParser returns a ServiceParser backed by client.
func NewServiceParser(client llm.Client, opts Options) *ServiceParser {
	if opts.Timeout <= 0 {
		opts.Timeout = llm.DefaultTimeout
	}
	if opts.Tier == "" {
		opts.Tier = llm.TierStandard
	}
	return &ServiceParser{client: client, opts: opts}
}

// Parse sends the head of text to the service and validates its answer.
// The returned fragment carries the full text in RawText.
func (p *ServiceParser) Parse(ctx context.Context, text string) (*ParsedProfileFragment, error) {
	prompt, err := prompts.Render(promptFile, promptKey, map[string]string{
		"ResumeText": truncateRunes(text, MaxServiceInputRunes),
	})
	if err != nil {
		return nil, &ServiceError{Message: "prompt unavailable", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	raw, err := p.client.GenerateJSON(ctx, prompt, p.opts.Tier)
	if err != nil {
		return nil, &ServiceError{Message: "request failed", Cause: err}
	}

	if err := schemas.Validate(schemas.ParsedProfileFragment, raw); err != nil {
		return nil, &ServiceError{Message: "response does not match fragment schema", Cause: err}
	}

	var fragment ParsedProfileFragment
	if err := json.Unmarshal([]byte(raw), &fragment); err != nil {
		return nil, &ServiceError{Message: "malformed response", Cause: err}
	}

	fragment.normalize()
	fragment.RawText = text
	fragment.Mock = false
	fragment.Message = ""
	return &fragment, nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
