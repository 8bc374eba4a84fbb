// Package server provides the HTTP API for job search, application
// tracking, profiles and resume parsing.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/job-copilot/internal/assist"
	"github.com/jonathan/job-copilot/internal/config"
	"github.com/jonathan/job-copilot/internal/document"
	"github.com/jonathan/job-copilot/internal/resume"
	"github.com/jonathan/job-copilot/internal/tracker"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the status code for err. Wrapped errors are matched
// with errors.As.
func HTTPStatus(err error) int {
	var (
		emailTaken   *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		userNotFound *ErrUserNotFound
		badRequest   *ErrValidation
		invalid      *tracker.ValidationError
		notFound     *tracker.NotFoundError
		unsupported  *document.UnsupportedFormatError
		tooLarge     *document.TooLargeError
		maxBytes     *http.MaxBytesError
		extraction   *document.ExtractionError
		parseFailed  *resume.ServiceError
		assistFailed *assist.ServiceError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailTaken):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badRequest), errors.As(err, &invalid),
		errors.Is(err, config.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &parseFailed), errors.As(err, &assistFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal error details behind a generic message.
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
