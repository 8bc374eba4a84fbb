// Package tracker owns the lifecycle of job applications: creation with a
// seeded timeline, partial updates that record status changes, removal and
// per-status statistics.
package tracker

import (
	"strings"
	"time"

	"github.com/jonathan/job-copilot/internal/listing"
)

// Status is the lifecycle state of an application. Any status may follow
// any other.
type Status string

// Application statuses.
const (
	StatusApplied   Status = "applied"
	StatusPending   Status = "pending"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusApplied,
	StatusPending,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusWithdrawn,
}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", &ValidationError{Field: "status", Message: "must be one of applied, pending, interview, offer, rejected, withdrawn"}
	}
	return st, nil
}

// SubmittedNote is the note on the first timeline entry.
const SubmittedNote = "Application submitted"

// Job is the snapshot of a posting taken when the application is created.
// It is not a live reference; the listing may later disappear.
type Job struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	ApplyURL string `json:"applyUrl"`
	Source   string `json:"source"`
	Salary   string `json:"salary"`
}

// JobFromListing snapshots a listing. The salary becomes display text.
func JobFromListing(l listing.Listing) Job {
	return Job{
		Title:    l.Title,
		Company:  l.Company,
		Location: l.Location,
		ApplyURL: l.ApplyURL,
		Source:   string(l.Source),
		Salary:   l.Salary.Display(),
	}
}

// TimelineEntry records one status change.
type TimelineEntry struct {
	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
	Note   string    `json:"note"`
}

// Application is a tracked job application.
type Application struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Job          Job             `json:"job"`
	Status       Status          `json:"status"`
	AppliedAt    time.Time       `json:"appliedAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Notes        string          `json:"notes"`
	ContactName  string          `json:"contactName"`
	ContactEmail string          `json:"contactEmail"`
	NextStep     string          `json:"nextStep"`
	Timeline     []TimelineEntry `json:"timeline"`
}
