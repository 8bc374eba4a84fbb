package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-copilot/internal/config"
	"github.com/jonathan/job-copilot/internal/document"
	"github.com/jonathan/job-copilot/internal/jobs"
	"github.com/jonathan/job-copilot/internal/listing"
	"github.com/jonathan/job-copilot/internal/resume"
	"github.com/jonathan/job-copilot/internal/server"
)

func TestMimeTypeForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"cv.pdf", document.MIMEPDF, false},
		{"CV.PDF", document.MIMEPDF, false},
		{"cv.docx", document.MIMEDocx, false},
		{"old/cv.doc", document.MIMEDoc, false},
		{"cv.txt", "", true},
		{"cv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := mimeTypeForPath(tt.path)
			if tt.wantErr {
				var unsupported *document.UnsupportedFormatError
				assert.ErrorAs(t, err, &unsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	pipeline := resume.NewPipeline(document.NewExtractor(), resume.NewParser(nil, resume.Options{}))

	paths := []string{
		writeDocx(t, dir, "a.docx", "Ada Lovelace", "ada@example.com", "Python"),
		writeDocx(t, dir, "b.docx", "Grace Hopper", "grace@example.com", "Kubernetes"),
		writeDocx(t, dir, "c.docx", "Linus Torvalds", "linus@example.com", "Git"),
	}

	results, err := parseFiles(context.Background(), pipeline, paths, 2, document.MaxUploadBytes)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "a.docx", results[0].File)
	assert.Equal(t, "ada@example.com", results[0].Fragment.Personal.Email)
	assert.Equal(t, "Grace", results[1].Fragment.Personal.FirstName)
	assert.Equal(t, []string{"Git"}, results[2].Fragment.Skills)
	for _, r := range results {
		assert.True(t, r.Fragment.Mock)
	}
}

func TestParseFiles_Errors(t *testing.T) {
	dir := t.TempDir()
	pipeline := resume.NewPipeline(document.NewExtractor(), resume.NewParser(nil, resume.Options{}))
	good := writeDocx(t, dir, "good.docx", "Jane Doe")

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := parseFiles(context.Background(), pipeline, []string{good, filepath.Join(dir, "notes.txt")}, 1, 0)
		var unsupported *document.UnsupportedFormatError
		assert.ErrorAs(t, err, &unsupported)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parseFiles(context.Background(), pipeline, []string{filepath.Join(dir, "gone.pdf")}, 1, 0)
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := parseFiles(context.Background(), pipeline, []string{good}, 1, 10)
		var tooLarge *document.TooLargeError
		assert.ErrorAs(t, err, &tooLarge)
	})
}

func TestSearchCommand(t *testing.T) {
	isolateEnv(t)

	out, err := executeCommand(t, "search", "--q", "engineer", "--limit", "3", "--json")
	require.NoError(t, err)

	var result jobs.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, listing.SourceDemo, result.Source)
	assert.LessOrEqual(t, len(result.Listings), 3)
	assert.Equal(t, 3, result.PageSize)
}

func TestSearchCommand_Summary(t *testing.T) {
	isolateEnv(t)

	out, err := executeCommand(t, "search", "--q", "Frontend")
	require.NoError(t, err)
	assert.Contains(t, out, "Senior Frontend Developer")
}

func TestSearchCommand_InvalidType(t *testing.T) {
	isolateEnv(t)

	_, err := executeCommand(t, "search", "--type", "gig")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job type")
}

func TestParseResumeCommand(t *testing.T) {
	isolateEnv(t)
	path := writeDocx(t, t.TempDir(), "cv.docx", "Jane Doe", "jane.doe@x.com", "React developer")

	out, err := executeCommand(t, "parse-resume", "--json", path)
	require.NoError(t, err)

	var results []parsedFile
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "jane.doe@x.com", results[0].Fragment.Personal.Email)
	assert.Contains(t, results[0].Fragment.Skills, "React")
	assert.True(t, results[0].Fragment.Mock)
}

func TestParseResumeCommand_RequiresFile(t *testing.T) {
	isolateEnv(t)
	_, err := executeCommand(t, "parse-resume")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	const secret = "cli-test-secret-0123456789"
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	userID := uuid.New()

	out, err := executeCommand(t, "token", "--user-id", userID.String())
	require.NoError(t, err)

	svc := server.NewJWTService(&config.JWTConfig{Secret: secret, ExpirationHours: 1})
	claims, err := svc.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenCommand_InvalidUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret-0123456789")

	_, err := executeCommand(t, "token", "--user-id", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --user-id")
}

func TestMigrateCommand_RequiresDatabaseURL(t *testing.T) {
	isolateEnv(t)

	_, err := executeCommand(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLLMConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.LLMProvider = "openai"
	cfg.LLMModel = "gpt-4.1-mini"
	cfg.LLMBaseURL = "https://openrouter.ai/api/v1"

	c := llmConfig(&cfg)
	assert.Equal(t, "gpt-4.1-mini", c.GetModel("standard"))
	assert.Equal(t, "https://openrouter.ai/api/v1", c.BaseURL)
	assert.Equal(t, config.DefaultLLMTimeout, c.CallTimeout())
}
