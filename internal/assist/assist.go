// Package assist provides the application helpers: guessing the role a
// text is about and pre-filling application form fields from a profile.
//
// Each helper has a service-backed and a deterministic implementation. The
// choice is made once at construction; a failing service is reported, not
// replaced by the deterministic variant.
package assist

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-copilot/internal/llm"
	"github.com/jonathan/job-copilot/internal/profile"
)

// RoleResult is the detected role.
type RoleResult struct {
	Role         string   `json:"role"`
	Confidence   float64  `json:"confidence"`
	Alternatives []string `json:"alternatives"`
	Mock         bool     `json:"mock"`
}

// RoleDetector guesses the job role a text describes.
type RoleDetector interface {
	DetectRole(ctx context.Context, text string) (*RoleResult, error)
}

// Applicant is the data a form is filled from: the profile plus the
// account email, which the profile does not carry.
type Applicant struct {
	profile.Profile
	Email string `json:"email"`
}

// FillResult maps each requested field label to a value.
type FillResult struct {
	Filled map[string]string `json:"filled"`
	Mock   bool              `json:"mock"`
}

// FormFiller answers application form fields for an applicant.
type FormFiller interface {
	Fill(ctx context.Context, applicant Applicant, fields []string) (*FillResult, error)
}

// Options configures the service-backed helpers.
type Options struct {
	// Timeout bounds one service call. Zero means llm.DefaultTimeout.
	Timeout time.Duration
}

// NewRoleDetector returns the deterministic detector for a nil client.
func NewRoleDetector(client llm.Client, opts Options) RoleDetector {
	if client == nil {
		return KeywordRoleDetector{}
	}
	return &ServiceRoleDetector{client: client, timeout: timeoutOrDefault(opts.Timeout)}
}

// NewFormFiller returns the deterministic filler for a nil client.
func NewFormFiller(client llm.Client, opts Options) FormFiller {
	if client == nil {
		return LabelFormFiller{}
	}
	return &ServiceFormFiller{client: client, timeout: timeoutOrDefault(opts.Timeout)}
}

// ServiceError is returned when the text-understanding service fails or
// answers with an invalid payload.
type ServiceError struct {
	Op    string
	Cause error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Op, e.Cause)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
