package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/job-copilot/internal/assist"
	"github.com/jonathan/job-copilot/internal/config"
	"github.com/jonathan/job-copilot/internal/db/memory"
	"github.com/jonathan/job-copilot/internal/document"
	"github.com/jonathan/job-copilot/internal/jobs"
	"github.com/jonathan/job-copilot/internal/profile"
	"github.com/jonathan/job-copilot/internal/resume"
	"github.com/jonathan/job-copilot/internal/server/ratelimit"
	"github.com/jonathan/job-copilot/internal/tracker"
)

const testJWTSecret = "test-secret-key-for-jwt-signing"

type testEnv struct {
	server *Server
	store  *memory.Store
	tokens *JWTService
}

type testOption func(*Config, *Services)

func withLogger(logger *zap.Logger) testOption {
	return func(c *Config, _ *Services) { c.Logger = logger }
}

func withRateLimit(rl *ratelimit.Config) testOption {
	return func(c *Config, _ *Services) { c.RateLimit = rl }
}

func withMaxUpload(n int64) testOption {
	return func(c *Config, _ *Services) { c.MaxUploadBytes = n }
}

func withResumes(p DocumentParser) testOption {
	return func(_ *Config, s *Services) { s.Resumes = p }
}

// newTestEnv wires the real services on top of the in-memory store, with
// deterministic parsing and no rate limit.
func newTestEnv(t *testing.T, opts ...testOption) *testEnv {
	t.Helper()
	store := memory.New()
	profiles := profile.NewService(store)
	tokens := NewJWTService(&config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1})
	passwords := &config.PasswordConfig{BcryptCost: bcrypt.MinCost}

	svc := Services{
		Jobs:         jobs.NewAggregator(nil, jobs.AggregatorConfig{}),
		Applications: tracker.NewService(store),
		Profiles:     profiles,
		Resumes:      resume.NewPipeline(document.NewExtractor(), resume.NewParser(nil, resume.Options{})),
		Roles:        assist.NewRoleDetector(nil, assist.Options{}),
		Forms:        assist.NewFormFiller(nil, assist.Options{}),
		Users:        NewUserService(store, profiles, passwords),
		Tokens:       tokens,
	}
	cfg := Config{Port: 0, RateLimit: &ratelimit.Config{Enabled: false}}
	for _, opt := range opts {
		opt(&cfg, &svc)
	}

	s := New(cfg, svc)
	t.Cleanup(s.rateLimiter.Stop)
	return &testEnv{server: s, store: store, tokens: tokens}
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:1234"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

// register creates an account and returns its token.
func (e *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, w, &body)
	return body["error"]
}

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body string
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// uploadRequest builds a multipart request with one "resume" part.
func uploadRequest(t *testing.T, path, token, filename, mimeType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="resume"; filename="`+filename+`"`)
	h.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
