package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-copilot/internal/profile"
	"github.com/jonathan/job-copilot/internal/tracker"
)

func TestIntegration_ProfileStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	svc := profile.NewService(db)
	userID := uuid.NewString()
	defer func() { _, _ = db.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID) }()

	p, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.True(t, p.Preferences.FullTime)

	p.Personal.FirstName = "Jane"
	p.Skills = []string{"Go", "SQL"}
	updated, err := svc.Update(ctx, userID, *p)
	require.NoError(t, err)

	stored, err := db.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Jane", stored.Personal.FirstName)
	assert.Equal(t, []string{"Go", "SQL"}, stored.Skills)
	assert.Equal(t, updated.Completeness, stored.Completeness)

	// Ensure must not overwrite an existing profile.
	require.NoError(t, svc.Ensure(ctx, userID))
	stored, err = db.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Personal.FirstName)
}

func TestIntegration_ApplicationStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	svc := tracker.NewService(db)
	owner := uuid.NewString()
	defer func() { _, _ = db.pool.Exec(ctx, `DELETE FROM applications WHERE user_id = $1`, owner) }()

	first, err := svc.Create(ctx, owner, tracker.CreateInput{
		Job: tracker.Job{Title: "Backend Engineer", Company: "Acme", Salary: "USD 100,000 - 120,000"},
	})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Create(ctx, owner, tracker.CreateInput{
		Job: tracker.Job{Title: "Platform Engineer", Company: "Globex"},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Job, got.Job)
	assert.Equal(t, first.AppliedAt, got.AppliedAt)
	require.Len(t, got.Timeline, 1)

	// Another owner cannot see it.
	_, err = svc.Get(ctx, uuid.NewString(), first.ID)
	var nf *tracker.NotFoundError
	assert.ErrorAs(t, err, &nf)

	offer := "offer"
	_, err = svc.Update(ctx, owner, first.ID, tracker.Patch{Status: &offer})
	require.NoError(t, err)
	_, err = svc.Update(ctx, owner, first.ID, tracker.Patch{Status: &offer})
	require.NoError(t, err)

	got, err = svc.Get(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.Equal(t, tracker.StatusOffer, got.Status)
	assert.Len(t, got.Timeline, 2)

	res, err := svc.List(ctx, owner, tracker.ListQuery{Status: "applied"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, second.ID, res.Applications[0].ID)
	assert.Equal(t, 1, res.StatusCounts[tracker.StatusOffer])
	assert.Equal(t, 1, res.StatusCounts[tracker.StatusApplied])

	all, err := svc.List(ctx, owner, tracker.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all.Applications, 2)
	assert.Equal(t, second.ID, all.Applications[0].ID, "newest first")

	require.NoError(t, svc.Remove(ctx, owner, first.ID))
	err = svc.Remove(ctx, owner, first.ID)
	assert.ErrorAs(t, err, &nf)
}
