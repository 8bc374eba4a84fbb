package server

import (
	"net/http"

	"github.com/jonathan/job-copilot/internal/assist"
)

func (s *Server) handleDetectRole(w http.ResponseWriter, r *http.Request) {
	var req DetectRoleRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.svc.Roles.DetectRole(r.Context(), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleFormFill answers form labels from the supplied profile, or from
// the caller's stored profile when none is sent.
func (s *Server) handleFormFill(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req FormFillRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.svc.Users.Get(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	applicant := assist.Applicant{Email: user.Email}
	if req.Profile != nil {
		applicant.Profile = *req.Profile
	} else {
		p, err := s.svc.Profiles.Get(r.Context(), userID.String())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		applicant.Profile = *p
	}

	result, err := s.svc.Forms.Fill(r.Context(), applicant, req.Fields)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
