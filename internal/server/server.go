package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-copilot/internal/assist"
	"github.com/jonathan/job-copilot/internal/document"
	"github.com/jonathan/job-copilot/internal/jobs"
	"github.com/jonathan/job-copilot/internal/listing"
	"github.com/jonathan/job-copilot/internal/profile"
	"github.com/jonathan/job-copilot/internal/resume"
	"github.com/jonathan/job-copilot/internal/server/middleware"
	"github.com/jonathan/job-copilot/internal/server/ratelimit"
	"github.com/jonathan/job-copilot/internal/tracker"
)

const shutdownTimeout = 30 * time.Second

// JobSearcher serves listing searches and catalog lookups.
type JobSearcher interface {
	Search(ctx context.Context, q jobs.Query) jobs.Result
	GetByID(id string) (listing.Listing, bool)
}

// DocumentParser turns an uploaded resume into a profile fragment.
type DocumentParser interface {
	ParseDocument(ctx context.Context, data []byte, mimeType string) (*resume.ParsedProfileFragment, error)
}

// Services are the domain components the API exposes.
type Services struct {
	Jobs         JobSearcher
	Applications *tracker.Service
	Profiles     *profile.Service
	Resumes      DocumentParser
	Roles        assist.RoleDetector
	Forms        assist.FormFiller
	Users        *UserService
	Tokens       *JWTService
}

// Config holds server configuration
type Config struct {
	Port           int
	MaxUploadBytes int64
	// RateLimit nil means ratelimit.LoadConfig().
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	svc         Services
	logger      *zap.Logger
	validator   *validator.Validate
	rateLimiter *ratelimit.Limiter
	maxUpload   int64
}

// New creates a new server instance
func New(cfg Config, svc Services) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = document.MaxUploadBytes
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		svc:         svc,
		logger:      cfg.Logger,
		validator:   newValidator(),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		maxUpload:   cfg.MaxUploadBytes,
	}

	auth := middleware.AuthMiddleware(svc.Tokens.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", protected(s.handleMe))
	mux.Handle("PUT /api/auth/password", protected(s.handleUpdatePassword))

	// Listings
	mux.Handle("GET /api/jobs", protected(s.handleSearchJobs))
	mux.Handle("GET /api/jobs/{id}", protected(s.handleGetJob))

	// Applications
	mux.Handle("GET /api/applications", protected(s.handleListApplications))
	mux.Handle("POST /api/applications", protected(s.handleCreateApplication))
	mux.Handle("GET /api/applications/{id}", protected(s.handleGetApplication))
	mux.Handle("PUT /api/applications/{id}", protected(s.handleUpdateApplication))
	mux.Handle("DELETE /api/applications/{id}", protected(s.handleDeleteApplication))

	// Profile
	mux.Handle("GET /api/profile", protected(s.handleGetProfile))
	mux.Handle("PUT /api/profile", protected(s.handleUpdateProfile))
	mux.Handle("POST /api/profile/parse-resume", protected(s.handleParseResume))

	// Assistance
	mux.Handle("POST /api/ai/detect-role", protected(s.handleDetectRole))
	mux.Handle("POST /api/ai/form-fill", protected(s.handleFormFill))

	s.handler = s.withLogging(s.withRateLimit(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second, // resume parsing may wait on the LLM
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the full middleware chain and router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// clientIP uses the address from RemoteAddr. Forwarded headers are not
// trusted.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds()+0.5)))
	}
	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientIP(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)
	s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it. Server-side failures are
// logged; their details stay out of the response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	s.errorResponse(w, status, publicMessage(err, status))
}

// currentUser returns the authenticated user set by the auth middleware.
func currentUser(r *http.Request) (uuid.UUID, error) {
	return middleware.GetUserID(r)
}
