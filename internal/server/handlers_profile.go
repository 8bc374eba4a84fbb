package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/job-copilot/internal/document"
	"github.com/jonathan/job-copilot/internal/profile"
	"github.com/jonathan/job-copilot/internal/resume"
)

// multipartOverhead is allowed on top of the file limit for form framing.
const multipartOverhead = 1 << 20

// ParseResumeResponse is the result of an upload. Profile is set only when
// the fragment was applied.
type ParseResumeResponse struct {
	Fragment *resume.ParsedProfileFragment `json:"fragment"`
	FileName string                        `json:"fileName"`
	Profile  *profile.Profile              `json:"profile,omitempty"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := s.svc.Profiles.Get(r.Context(), userID.String())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var p profile.Profile
	if err := s.decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.svc.Profiles.Update(r.Context(), userID.String(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleParseResume accepts a multipart "resume" file, extracts and parses
// it. With ?apply=true the fragment is merged into the stored profile.
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	apply := false
	if raw := r.URL.Query().Get("apply"); raw != "" {
		apply, err = strconv.ParseBool(raw)
		if err != nil {
			s.fail(w, r, &ErrValidation{Field: "apply", Message: "must be a boolean"})
			return
		}
	}

	if r.ContentLength > s.maxUpload+multipartOverhead {
		s.fail(w, r, &document.TooLargeError{Size: r.ContentLength, Limit: s.maxUpload})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.fail(w, r, &document.TooLargeError{Size: maxErr.Limit + 1, Limit: s.maxUpload})
			return
		}
		s.fail(w, r, &ErrValidation{Field: "resume", Message: "expected a multipart form upload"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "resume", Message: "file is required"})
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if err := document.CheckUpload(header.Size, mimeType, s.maxUpload); err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	fragment, err := s.svc.Resumes.ParseDocument(r.Context(), data, mimeType)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := ParseResumeResponse{Fragment: fragment, FileName: header.Filename}
	if apply {
		p, err := s.svc.Profiles.Get(r.Context(), userID.String())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		p.ApplyFragment(fragment)
		p.ResumeText = fragment.RawText
		p.ResumeFileName = header.Filename
		if resp.Profile, err = s.svc.Profiles.Update(r.Context(), userID.String(), *p); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
