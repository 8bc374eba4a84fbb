package assist

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/job-copilot/internal/llm"
	"github.com/jonathan/job-copilot/internal/schemas"
)

// DefaultRole is returned when no role keyword is found.
const DefaultRole = "Software Engineer"

// KeywordConfidence is the confidence reported by keyword detection.
const KeywordConfidence = 0.85

// roleKeywords are tried in order; the first one contained wins.
var roleKeywords = []string{"developer", "engineer", "designer", "manager", "analyst", "scientist", "architect"}

// KeywordRoleDetector detects roles by keyword.
type KeywordRoleDetector struct{}

// DetectRole implements RoleDetector.
func (KeywordRoleDetector) DetectRole(ctx context.Context, text string) (*RoleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lowered := strings.ToLower(text)
	role := DefaultRole
	for _, kw := range roleKeywords {
		if strings.Contains(lowered, kw) {
			role = strings.ToUpper(kw[:1]) + kw[1:]
			break
		}
	}
	return &RoleResult{
		Role:         role,
		Confidence:   KeywordConfidence,
		Alternatives: []string{},
		Mock:         true,
	}, nil
}

// ServiceRoleDetector asks the text-understanding service.
type ServiceRoleDetector struct {
	client  llm.Client
	timeout time.Duration
}

// DetectRole implements RoleDetector.
func (d *ServiceRoleDetector) DetectRole(ctx context.Context, text string) (*RoleResult, error) {
	prompt := llm.BuildExtractionPrompt(llm.RoleDetectionSchema(), text)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	raw, err := d.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &ServiceError{Op: "detect-role", Cause: err}
	}
	if err := schemas.Validate(schemas.RoleDetection, raw); err != nil {
		return nil, &ServiceError{Op: "detect-role", Cause: err}
	}

	var result RoleResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, &ServiceError{Op: "detect-role", Cause: err}
	}
	if result.Alternatives == nil {
		result.Alternatives = []string{}
	}
	result.Mock = false
	return &result, nil
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return llm.DefaultTimeout
	}
	return d
}
