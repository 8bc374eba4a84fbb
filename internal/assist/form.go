package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/job-copilot/internal/llm"
	"github.com/jonathan/job-copilot/internal/schemas"
)

// LabelFormFiller maps form labels to profile fields by substring.
type LabelFormFiller struct{}

// Fill implements FormFiller. Labels are matched case-insensitively in a
// fixed order: name, email, phone, linkedin, github, then summary/cover.
// Unknown labels get "".
func (LabelFormFiller) Fill(ctx context.Context, a Applicant, fields []string) (*FillResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := a.Personal
	filled := make(map[string]string, len(fields))
	for _, f := range fields {
		label := strings.ToLower(f)
		switch {
		case strings.Contains(label, "name"):
			filled[f] = strings.TrimSpace(p.FirstName + " " + p.LastName)
		case strings.Contains(label, "email"):
			filled[f] = a.Email
		case strings.Contains(label, "phone"):
			filled[f] = p.Phone
		case strings.Contains(label, "linkedin"):
			filled[f] = p.LinkedIn
		case strings.Contains(label, "github"):
			filled[f] = p.GitHub
		case strings.Contains(label, "summary"), strings.Contains(label, "cover"):
			filled[f] = p.Summary
		default:
			filled[f] = ""
		}
	}
	return &FillResult{Filled: filled, Mock: true}, nil
}

// ServiceFormFiller asks the text-understanding service.
type ServiceFormFiller struct {
	client  llm.Client
	timeout time.Duration
}

// Fill implements FormFiller. Fields the service leaves out are returned
// as "", and keys that were not asked for are dropped.
func (f *ServiceFormFiller) Fill(ctx context.Context, a Applicant, fields []string) (*FillResult, error) {
	applicantJSON, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode applicant: %w", err)
	}
	prompt := llm.BuildExtractionPrompt(llm.FormFillSchema(fields), string(applicantJSON))

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	raw, err := f.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ServiceError{Op: "form-fill", Cause: err}
	}
	if err := schemas.Validate(schemas.FormFill, raw); err != nil {
		return nil, &ServiceError{Op: "form-fill", Cause: err}
	}

	var answer struct {
		Filled map[string]*string `json:"filled"`
	}
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil, &ServiceError{Op: "form-fill", Cause: err}
	}

	filled := make(map[string]string, len(fields))
	for _, field := range fields {
		if v := answer.Filled[field]; v != nil {
			filled[field] = *v
		} else {
			filled[field] = ""
		}
	}
	return &FillResult{Filled: filled, Mock: false}, nil
}
