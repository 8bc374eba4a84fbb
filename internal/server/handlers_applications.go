package server

import (
	"net/http"

	"github.com/jonathan/job-copilot/internal/tracker"
)

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query := r.URL.Query()
	page, err := intParam(query.Get("page"), "page", 1)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := intParam(query.Get("limit"), "limit", tracker.DefaultPageSize)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.svc.Applications.List(r.Context(), userID.String(), tracker.ListQuery{
		Status:   query.Get("status"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleCreateApplication snapshots a catalog listing (listingId) or the
// job sent by the client, and starts tracking it.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateApplicationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var job tracker.Job
	if req.ListingID != "" {
		l, ok := s.svc.Jobs.GetByID(req.ListingID)
		if !ok {
			s.errorResponse(w, http.StatusNotFound, "job not found: "+req.ListingID)
			return
		}
		job = tracker.JobFromListing(l)
	} else {
		job = *req.Job
	}

	app, err := s.svc.Applications.Create(r.Context(), userID.String(), tracker.CreateInput{
		Job:          job,
		Notes:        req.Notes,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	app, err := s.svc.Applications.Get(r.Context(), userID.String(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateApplicationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	app, err := s.svc.Applications.Update(r.Context(), userID.String(), r.PathValue("id"), req.patch())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.svc.Applications.Remove(r.Context(), userID.String(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
