package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-copilot/internal/profile"
)

var _ profile.Store = (*DB)(nil)

// GetProfile returns the stored profile, or (nil, nil) when there is none.
func (db *DB) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	var doc []byte
	err := db.pool.QueryRow(ctx,
		`SELECT document FROM profiles WHERE user_id = $1`, userID,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	p.UserID = userID
	return &p, nil
}

// UpsertProfile inserts or replaces the profile document.
func (db *DB) UpsertProfile(ctx context.Context, p *profile.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, document, completeness, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET document = EXCLUDED.document,
		     completeness = EXCLUDED.completeness,
		     updated_at = EXCLUDED.updated_at`,
		p.UserID, doc, p.Completeness, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// CreateProfileIfMissing inserts p unless the user already has a profile.
func (db *DB) CreateProfileIfMissing(ctx context.Context, p *profile.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, document, completeness, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO NOTHING`,
		p.UserID, doc, p.Completeness, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}
