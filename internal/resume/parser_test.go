package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/job-copilot/internal/document"
	"github.com/jonathan/job-copilot/internal/llm"
	"github.com/jonathan/job-copilot/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
Senior Frontend Engineer
jane.doe@x.com | +1 (555) 123-4567

Built React and TypeScript apps on AWS.
Comfortable with Docker, Git and PostgreSQL.`

type fakeLLM struct {
	response string
	err      error
	prompt   string
	deadline time.Time
	block    bool
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompt = prompt
	f.deadline, _ = ctx.Deadline()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeLLM) Close() error                  { return nil }

func TestNewParser_SelectsImplementation(t *testing.T) {
	_, ok := NewParser(nil, Options{}).(*DeterministicParser)
	assert.True(t, ok)

	_, ok = NewParser(&fakeLLM{}, Options{}).(*ServiceParser)
	assert.True(t, ok)
}

func TestDeterministicParser_Sample(t *testing.T) {
	got, err := NewDeterministicParser().Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.True(t, got.Mock)
	assert.Equal(t, FallbackMessage, got.Message)
	assert.Equal(t, "Jane", got.Personal.FirstName)
	assert.Equal(t, "Doe", got.Personal.LastName)
	assert.Equal(t, "jane.doe@x.com", got.Personal.Email)
	assert.Equal(t, "+1 (555) 123-4567", got.Personal.Phone)
	assert.Equal(t, "Jane Doe Senior Frontend Engineer jane.doe@x.com | +1 (555) 123-4567", got.Personal.Summary)
	// "SQL" also matches inside "PostgreSQL".
	assert.Equal(t, []string{"React", "SQL", "TypeScript", "Docker", "AWS", "Git", "PostgreSQL"}, got.Skills)
	assert.Equal(t, sampleResume, got.RawText)
}

func TestDeterministicParser_SkillOrderFollowsKeywordList(t *testing.T) {
	got, err := NewDeterministicParser().Parse(context.Background(), "Go, React, Java")
	require.NoError(t, err)
	// "Java" comes before "React" and "Go" in the keyword list.
	assert.Equal(t, []string{"Java", "React", "Go"}, got.Skills)
}

func TestDeterministicParser_SkillsAreCaseSensitive(t *testing.T) {
	got, err := NewDeterministicParser().Parse(context.Background(), "react python docker")
	require.NoError(t, err)
	assert.Empty(t, got.Skills)
}

func TestDeterministicParser_Empty(t *testing.T) {
	got, err := NewDeterministicParser().Parse(context.Background(), "")
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
	assert.Equal(t, "", got.Personal.FirstName)
	assert.Equal(t, "", got.Personal.Summary)
	assert.Equal(t, []string{}, got.Skills)
	assert.Equal(t, []Education{}, got.Education)
}

func TestDeterministicParser_SingleWordName(t *testing.T) {
	got, err := NewDeterministicParser().Parse(context.Background(), "Madonna\nSinger")
	require.NoError(t, err)
	assert.Equal(t, "Madonna", got.Personal.FirstName)
	assert.Equal(t, "", got.Personal.LastName)
	assert.Equal(t, "Madonna Singer", got.Personal.Summary)
}

func TestDeterministicParser_RawTextCapped(t *testing.T) {
	long := strings.Repeat("é", MaxFallbackRawText+500)
	got, err := NewDeterministicParser().Parse(context.Background(), long)
	require.NoError(t, err)
	assert.Equal(t, MaxFallbackRawText, len([]rune(got.RawText)))
}

func TestServiceParser_Success(t *testing.T) {
	client := &fakeLLM{response: `{
		"personal": {"firstName": "Jane", "lastName": "Doe", "email": "jane@x.com"},
		"experience": [{"company": "Acme", "title": "Engineer", "current": true}],
		"skills": ["Go", "Kubernetes"]
	}`}

	got, err := NewServiceParser(client, Options{}).Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.False(t, got.Mock)
	assert.Empty(t, got.Message)
	assert.Equal(t, "Jane", got.Personal.FirstName)
	assert.Equal(t, []string{"Go", "Kubernetes"}, got.Skills)
	require.Len(t, got.Experience, 1)
	assert.True(t, got.Experience[0].Current)
	assert.Equal(t, []Education{}, got.Education)
	assert.Equal(t, []string{}, got.Languages)
	assert.Equal(t, sampleResume, got.RawText)
	assert.Contains(t, client.prompt, "jane.doe@x.com")
}

func TestServiceParser_SendsOnlyHead(t *testing.T) {
	client := &fakeLLM{response: `{}`}
	text := strings.Repeat("a", MaxServiceInputRunes) + "TAIL-MARKER"

	got, err := NewServiceParser(client, Options{}).Parse(context.Background(), text)
	require.NoError(t, err)
	assert.NotContains(t, client.prompt, "TAIL-MARKER")
	assert.Equal(t, text, got.RawText)
}

func TestServiceParser_AppliesTimeout(t *testing.T) {
	client := &fakeLLM{block: true}
	start := time.Now()

	_, err := NewServiceParser(client, Options{Timeout: 20 * time.Millisecond}).Parse(context.Background(), "x")

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.WithinDuration(t, start.Add(20*time.Millisecond), client.deadline, time.Second)
}

func TestServiceParser_Failures(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeLLM
		check  func(t *testing.T, err error)
	}{
		{
			name:   "service error",
			client: &fakeLLM{err: errors.New("quota exceeded")},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "quota exceeded")
			},
		},
		{
			name:   "not json",
			client: &fakeLLM{response: "sorry, I can't"},
		},
		{
			name:   "schema mismatch",
			client: &fakeLLM{response: `{"skills": "Go"}`},
			check: func(t *testing.T, err error) {
				var ve *schemas.ValidationError
				assert.ErrorAs(t, err, &ve)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewServiceParser(tt.client, Options{}).Parse(context.Background(), sampleResume)
			assert.Nil(t, got)
			var se *ServiceError
			require.ErrorAs(t, err, &se)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 4))
	assert.Equal(t, "", truncateRunes("abc", 0))
}

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestPipeline_ParseDocument(t *testing.T) {
	p := NewPipeline(document.NewExtractor(), NewParser(nil, Options{}))
	data := buildDocx(t, "Jane Doe", "jane.doe@x.com", "React developer")

	got, err := p.ParseDocument(context.Background(), data, document.MIMEDocx)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@x.com", got.Personal.Email)
	assert.Contains(t, got.Skills, "React")
	assert.True(t, got.Mock)
}

func TestPipeline_UnsupportedFormatSkipsParser(t *testing.T) {
	client := &fakeLLM{response: `{}`}
	p := NewPipeline(document.NewExtractor(), NewParser(client, Options{}))

	_, err := p.ParseDocument(context.Background(), []byte("png"), "image/png")
	var ufe *document.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Empty(t, client.prompt)
}
