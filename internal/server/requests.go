package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-copilot/internal/profile"
	"github.com/jonathan/job-copilot/internal/tracker"
)

// maxJSONBodyBytes caps JSON request bodies.
const maxJSONBodyBytes = 1 << 20

// RegisterRequest creates an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest changes the caller's password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// CreateApplicationRequest starts tracking an application, either from a
// catalog listing or from a job snapshot sent by the client.
type CreateApplicationRequest struct {
	ListingID    string       `json:"listingId" validate:"required_without=Job"`
	Job          *tracker.Job `json:"job" validate:"required_without=ListingID"`
	Notes        string       `json:"notes" validate:"max=5000"`
	ContactName  string       `json:"contactName" validate:"max=200"`
	ContactEmail string       `json:"contactEmail" validate:"omitempty,email"`
}

// UpdateApplicationRequest is a partial update; absent fields are kept.
type UpdateApplicationRequest struct {
	Status       *string `json:"status"`
	Notes        *string `json:"notes" validate:"omitempty,max=5000"`
	ContactName  *string `json:"contactName" validate:"omitempty,max=200"`
	ContactEmail *string `json:"contactEmail" validate:"omitempty,email"`
	NextStep     *string `json:"nextStep" validate:"omitempty,max=500"`
	TimelineNote string  `json:"timelineNote" validate:"max=500"`
}

func (r UpdateApplicationRequest) patch() tracker.Patch {
	return tracker.Patch{
		Status:       r.Status,
		Notes:        r.Notes,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		NextStep:     r.NextStep,
		TimelineNote: r.TimelineNote,
	}
}

// DetectRoleRequest asks which role a text describes.
type DetectRoleRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

// FormFillRequest asks for answers to form field labels. Without a
// profile the caller's stored profile is used.
type FormFillRequest struct {
	Profile *profile.Profile `json:"profile"`
	Fields  []string         `json:"fields" validate:"required,min=1,max=100,dive,required,max=200"`
}

// newValidator reports JSON field names in validation errors.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return err
		case errors.Is(err, io.EOF):
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validator.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError reports the first failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return &ErrValidation{Field: fe.Field(), Message: msg}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}
