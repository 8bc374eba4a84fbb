package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-copilot/internal/tracker"
)

var _ tracker.Store = (*DB)(nil)

const applicationColumns = `id, user_id, job, status, applied_at, updated_at,
	notes, contact_name, contact_email, next_step, timeline`

// InsertApplication stores a new application.
func (db *DB) InsertApplication(ctx context.Context, app *tracker.Application) error {
	jobJSON, err := json.Marshal(app.Job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	timelineJSON, err := marshalTimeline(app.Timeline)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO applications (`+applicationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		app.ID, app.UserID, jobJSON, string(app.Status), app.AppliedAt, app.UpdatedAt,
		app.Notes, app.ContactName, app.ContactEmail, app.NextStep, timelineJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// GetApplication returns one application of owner, or (nil, nil).
func (db *DB) GetApplication(ctx context.Context, owner, id string) (*tracker.Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
		id, owner,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// UpdateApplication writes the mutable fields. The timeline append happens in
// the same statement so a status and its history entry never diverge.
func (db *DB) UpdateApplication(ctx context.Context, app *tracker.Application, appended *tracker.TimelineEntry) (bool, error) {
	appendJSON := []byte("[]")
	if appended != nil {
		var err error
		appendJSON, err = json.Marshal([]tracker.TimelineEntry{*appended})
		if err != nil {
			return false, fmt.Errorf("failed to marshal timeline entry: %w", err)
		}
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE applications
		 SET status = $3, notes = $4, contact_name = $5, contact_email = $6,
		     next_step = $7, updated_at = $8, timeline = timeline || $9::jsonb
		 WHERE id = $1 AND user_id = $2`,
		app.ID, app.UserID, string(app.Status), app.Notes, app.ContactName,
		app.ContactEmail, app.NextStep, app.UpdatedAt, appendJSON,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteApplication removes an application of owner.
func (db *DB) DeleteApplication(ctx context.Context, owner, id string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListApplications returns one page, newest first, and the number of rows
// matching the status filter. An empty status matches every row.
func (db *DB) ListApplications(ctx context.Context, owner string, status tracker.Status, limit, offset int) ([]tracker.Application, int, error) {
	var total int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications
		 WHERE user_id = $1 AND ($2 = '' OR status = $2)`,
		owner, string(status),
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}
	if offset < 0 || offset >= total {
		return []tracker.Application{}, total, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE user_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY applied_at DESC, id
		 LIMIT $3 OFFSET $4`,
		owner, string(status), limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []tracker.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, total, nil
}

// CountApplicationsByStatus counts every application of owner per status.
func (db *DB) CountApplicationsByStatus(ctx context.Context, owner string) (map[tracker.Status]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications WHERE user_id = $1 GROUP BY status`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[tracker.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[tracker.Status(status)] = n
	}
	return counts, rows.Err()
}

func scanApplication(row pgx.Row) (*tracker.Application, error) {
	var app tracker.Application
	var status string
	var jobJSON, timelineJSON []byte

	err := row.Scan(&app.ID, &app.UserID, &jobJSON, &status, &app.AppliedAt, &app.UpdatedAt,
		&app.Notes, &app.ContactName, &app.ContactEmail, &app.NextStep, &timelineJSON)
	if err != nil {
		return nil, err
	}
	app.Status = tracker.Status(status)
	app.AppliedAt = app.AppliedAt.UTC()
	app.UpdatedAt = app.UpdatedAt.UTC()

	if err := json.Unmarshal(jobJSON, &app.Job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	if err := json.Unmarshal(timelineJSON, &app.Timeline); err != nil {
		return nil, fmt.Errorf("failed to decode timeline: %w", err)
	}
	if app.Timeline == nil {
		app.Timeline = []tracker.TimelineEntry{}
	}
	return &app, nil
}

func marshalTimeline(entries []tracker.TimelineEntry) ([]byte, error) {
	if entries == nil {
		entries = []tracker.TimelineEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timeline: %w", err)
	}
	return data, nil
}
