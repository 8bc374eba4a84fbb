package tracker

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// List paging defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Store persists applications. Every method is scoped to an owner.
type Store interface {
	InsertApplication(ctx context.Context, app *Application) error
	// GetApplication returns (nil, nil) when no row matches.
	GetApplication(ctx context.Context, owner, id string) (*Application, error)
	// UpdateApplication writes the mutable fields of app and, when appended
	// is non-nil, adds it to the timeline in the same statement. It returns
	// false when no row matched.
	UpdateApplication(ctx context.Context, app *Application, appended *TimelineEntry) (bool, error)
	DeleteApplication(ctx context.Context, owner, id string) (bool, error)
	// ListApplications returns one page ordered by appliedAt descending and
	// the total number of rows matching status ("" matches all).
	ListApplications(ctx context.Context, owner string, status Status, limit, offset int) ([]Application, int, error)
	CountApplicationsByStatus(ctx context.Context, owner string) (map[Status]int, error)
}

// CreateInput is the data needed to start tracking an application.
type CreateInput struct {
	Job          Job
	Notes        string
	ContactName  string
	ContactEmail string
}

// Patch is a partial update. A nil field is left unchanged; a pointer to
// "" clears the field (except Status, which must stay valid).
type Patch struct {
	Status       *string
	Notes        *string
	ContactName  *string
	ContactEmail *string
	NextStep     *string
	// TimelineNote annotates the timeline entry added by a status change.
	TimelineNote string
}

// ListQuery selects a page of applications.
type ListQuery struct {
	Status   string
	Page     int
	PageSize int
}

// ListResult is one page plus account-wide statistics.
type ListResult struct {
	Applications []Application `json:"applications"`
	Total        int           `json:"total"`
	Pages        int           `json:"pages"`
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
	// StatusCounts covers every application of the owner, regardless of
	// the status filter and the page. Every status is present.
	StatusCounts map[Status]int `json:"statusCounts"`
}

// Service implements the application lifecycle on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a Service.
func NewService(store Store) *Service {
	return &Service{store: store, now: defaultNow}
}

// postgres timestamps keep microseconds.
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Create starts tracking an application in status applied.
func (s *Service) Create(ctx context.Context, owner string, in CreateInput) (*Application, error) {
	in.Job.Title = strings.TrimSpace(in.Job.Title)
	in.Job.Company = strings.TrimSpace(in.Job.Company)
	if in.Job.Title == "" {
		return nil, &ValidationError{Field: "job.title", Message: "is required"}
	}
	if in.Job.Company == "" {
		return nil, &ValidationError{Field: "job.company", Message: "is required"}
	}

	now := s.now()
	app := &Application{
		ID:           uuid.NewString(),
		UserID:       owner,
		Job:          in.Job,
		Status:       StatusApplied,
		AppliedAt:    now,
		UpdatedAt:    now,
		Notes:        in.Notes,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		Timeline: []TimelineEntry{
			{Status: StatusApplied, Date: now, Note: SubmittedNote},
		},
	}

	if err := s.store.InsertApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// Get returns one application of owner.
func (s *Service) Get(ctx context.Context, owner, id string) (*Application, error) {
	app, err := s.store.GetApplication(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, &NotFoundError{ID: id}
	}
	return app, nil
}

// Update applies a partial update. A status change appends exactly one
// timeline entry; setting the current status again appends nothing.
func (s *Service) Update(ctx context.Context, owner, id string, p Patch) (*Application, error) {
	var newStatus Status
	if p.Status != nil {
		st, err := ParseStatus(*p.Status)
		if err != nil {
			return nil, err
		}
		newStatus = st
	}

	app, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(app.UpdatedAt) {
		now = app.UpdatedAt
	}

	var appended *TimelineEntry
	if newStatus != "" && newStatus != app.Status {
		appended = &TimelineEntry{Status: newStatus, Date: now, Note: p.TimelineNote}
		app.Status = newStatus
		app.Timeline = append(app.Timeline, *appended)
	}
	if p.Notes != nil {
		app.Notes = *p.Notes
	}
	if p.ContactName != nil {
		app.ContactName = *p.ContactName
	}
	if p.ContactEmail != nil {
		app.ContactEmail = *p.ContactEmail
	}
	if p.NextStep != nil {
		app.NextStep = *p.NextStep
	}
	app.UpdatedAt = now

	ok, err := s.store.UpdateApplication(ctx, app, appended)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return app, nil
}

// Remove deletes an application of owner.
func (s *Service) Remove(ctx context.Context, owner, id string) error {
	ok, err := s.store.DeleteApplication(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if !ok {
		return &NotFoundError{ID: id}
	}
	return nil
}

// List returns a page of the owner's applications, newest first.
func (s *Service) List(ctx context.Context, owner string, q ListQuery) (*ListResult, error) {
	var filter Status
	if strings.TrimSpace(q.Status) != "" {
		st, err := ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter = st
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	// The row offset must fit in an int.
	if q.Page-1 > math.MaxInt/q.PageSize {
		return nil, &ValidationError{Field: "page", Message: "is too large"}
	}

	apps, total, err := s.store.ListApplications(ctx, owner, filter, q.PageSize, (q.Page-1)*q.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	counts, err := s.store.CountApplicationsByStatus(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	if apps == nil {
		apps = []Application{}
	}
	statusCounts := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		statusCounts[st] = counts[st]
	}

	return &ListResult{
		Applications: apps,
		Total:        total,
		Pages:        (total + q.PageSize - 1) / q.PageSize,
		Page:         q.Page,
		PageSize:     q.PageSize,
		StatusCounts: statusCounts,
	}, nil
}
