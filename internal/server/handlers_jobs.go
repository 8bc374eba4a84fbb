package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/job-copilot/internal/jobs"
	"github.com/jonathan/job-copilot/internal/listing"
)

// Listing search defaults.
const (
	defaultSearchText = "software engineer"
	maxSearchLimit    = 100
)

// handleSearchJobs serves GET /api/jobs?q=&location=&page=&limit=&type=.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"), "page", 1)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := intParam(query.Get("limit"), "limit", jobs.DefaultPageSize)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit = min(limit, maxSearchLimit)

	var jobType listing.JobType
	if raw := query.Get("type"); raw != "" {
		t, ok := listing.ParseJobType(raw)
		if !ok {
			s.fail(w, r, &ErrValidation{Field: "type", Message: "unknown job type " + strconv.Quote(raw)})
			return
		}
		jobType = t
	}

	text := strings.TrimSpace(query.Get("q"))
	if text == "" {
		text = defaultSearchText
	}

	result := s.svc.Jobs.Search(r.Context(), jobs.Query{
		Text:     text,
		Location: query.Get("location"),
		Page:     page,
		PageSize: limit,
		Type:     jobType,
	})
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetJob serves GET /api/jobs/{id} from the local catalog.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	l, ok := s.svc.Jobs.GetByID(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "job not found: "+id)
		return
	}
	s.jsonResponse(w, http.StatusOK, l)
}

// intParam parses a positive integer query parameter. Empty means def.
func intParam(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &ErrValidation{Field: name, Message: "must be a positive integer"}
	}
	return n, nil
}
