package profile

import (
	"context"
	"fmt"
	"time"
)

// Store persists profiles, one per user.
type Store interface {
	// GetProfile returns (nil, nil) when the user has no profile yet.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// UpsertProfile inserts or replaces the user's profile.
	UpsertProfile(ctx context.Context, p *Profile) error
	// CreateProfileIfMissing inserts p unless a profile already exists.
	CreateProfileIfMissing(ctx context.Context, p *Profile) error
}

// Service reads and writes profiles.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a Service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Get returns the user's profile, creating the default one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p != nil {
		p.Normalize()
		return p, nil
	}
	if err := s.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	p, err = s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("profile for user %s missing after create", userID)
	}
	p.Normalize()
	return p, nil
}

// Update replaces the user's profile. Completeness and UpdatedAt are
// recomputed; the owner is always userID whatever p says.
func (s *Service) Update(ctx context.Context, userID string, p Profile) (*Profile, error) {
	p.UserID = userID
	p.Normalize()
	p.Completeness = Completeness(&p)
	p.UpdatedAt = s.now()
	if err := s.store.UpsertProfile(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &p, nil
}

// Ensure creates the empty default profile if the user has none.
func (s *Service) Ensure(ctx context.Context, userID string) error {
	p := New(userID)
	p.UpdatedAt = s.now()
	if err := s.store.CreateProfileIfMissing(ctx, p); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}
