// Package memory is an in-process implementation of the user, profile and
// application stores. It backs development runs without PostgreSQL and
// handler tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-copilot/internal/db"
	"github.com/jonathan/job-copilot/internal/profile"
	"github.com/jonathan/job-copilot/internal/tracker"
)

var (
	_ tracker.Store = (*Store)(nil)
	_ profile.Store = (*Store)(nil)
)

// Store keeps everything in maps guarded by one mutex. Values are copied
// on the way in and out so callers never share state with the store.
type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]db.User
	profiles map[string]profile.Profile
	apps     map[string]tracker.Application
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[uuid.UUID]db.User),
		profiles: make(map[string]profile.Profile),
		apps:     make(map[string]tracker.Application),
	}
}

// CreateUser mirrors db.DB.CreateUser, including ErrEmailTaken.
func (s *Store) CreateUser(_ context.Context, name, email, passwordHash string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return nil, db.ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	u := db.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	return &u, nil
}

// GetUser returns (nil, nil) for an unknown id.
func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByEmail returns (nil, nil) for an unknown email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if email != "" && u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// UpdatePassword replaces the stored hash.
func (s *Store) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return &userNotFoundError{id: id}
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

type userNotFoundError struct{ id uuid.UUID }

func (e *userNotFoundError) Error() string { return "user not found: " + e.id.String() }

// GetProfile returns (nil, nil) when the user has no profile.
func (s *Store) GetProfile(_ context.Context, userID string) (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	out := cloneProfile(p)
	return &out, nil
}

// UpsertProfile inserts or replaces a profile.
func (s *Store) UpsertProfile(_ context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = cloneProfile(*p)
	return nil
}

// CreateProfileIfMissing inserts p unless the user already has a profile.
func (s *Store) CreateProfileIfMissing(_ context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.UserID]; !ok {
		s.profiles[p.UserID] = cloneProfile(*p)
	}
	return nil
}

func cloneProfile(p profile.Profile) profile.Profile {
	p.Education = slices.Clone(p.Education)
	p.Experience = slices.Clone(p.Experience)
	p.Skills = slices.Clone(p.Skills)
	p.Certifications = slices.Clone(p.Certifications)
	p.Languages = slices.Clone(p.Languages)
	p.Preferences.DesiredRoles = slices.Clone(p.Preferences.DesiredRoles)
	p.Preferences.DesiredLocations = slices.Clone(p.Preferences.DesiredLocations)
	return p
}

func cloneApplication(a tracker.Application) tracker.Application {
	a.Timeline = append([]tracker.TimelineEntry{}, a.Timeline...)
	return a
}

// InsertApplication stores a new application.
func (s *Store) InsertApplication(_ context.Context, app *tracker.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.ID] = cloneApplication(*app)
	return nil
}

// GetApplication returns (nil, nil) for a missing or foreign id.
func (s *Store) GetApplication(_ context.Context, owner, id string) (*tracker.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok || a.UserID != owner {
		return nil, nil
	}
	out := cloneApplication(a)
	return &out, nil
}

// UpdateApplication writes the mutable fields and appends to the stored
// timeline under the same lock.
func (s *Store) UpdateApplication(_ context.Context, app *tracker.Application, appended *tracker.TimelineEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.apps[app.ID]
	if !ok || stored.UserID != app.UserID {
		return false, nil
	}
	stored.Status = app.Status
	stored.Notes = app.Notes
	stored.ContactName = app.ContactName
	stored.ContactEmail = app.ContactEmail
	stored.NextStep = app.NextStep
	stored.UpdatedAt = app.UpdatedAt
	if appended != nil {
		stored.Timeline = append(stored.Timeline, *appended)
	}
	s.apps[app.ID] = stored
	return true, nil
}

// DeleteApplication removes an application of owner.
func (s *Store) DeleteApplication(_ context.Context, owner, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok || a.UserID != owner {
		return false, nil
	}
	delete(s.apps, id)
	return true, nil
}

// ListApplications pages the owner's applications, newest first.
func (s *Store) ListApplications(_ context.Context, owner string, status tracker.Status, limit, offset int) ([]tracker.Application, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []tracker.Application{}
	for _, a := range s.apps {
		if a.UserID == owner && (status == "" || a.Status == status) {
			matched = append(matched, cloneApplication(a))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].AppliedAt.Equal(matched[j].AppliedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].AppliedAt.After(matched[j].AppliedAt)
	})

	total := len(matched)
	if offset < 0 || offset >= total {
		return []tracker.Application{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

// CountApplicationsByStatus counts the owner's applications per status.
func (s *Store) CountApplicationsByStatus(_ context.Context, owner string) (map[tracker.Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[tracker.Status]int)
	for _, a := range s.apps {
		if a.UserID == owner {
			counts[a.Status]++
		}
	}
	return counts, nil
}
