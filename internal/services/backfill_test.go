package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-errpage-embed/internal/config"
	"github.com/tbourn/go-errpage-embed/internal/domain"
	"github.com/tbourn/go-errpage-embed/internal/observability"
	"github.com/tbourn/go-errpage-embed/internal/repo"
)

func TestNewGroupBackfiller_Defaults(t *testing.T) {
	b := NewGroupBackfiller(nil, config.BackfillConfig{})
	assert.Equal(t, time.Minute, b.Interval)
	assert.Equal(t, 200, b.BatchSize)
	assert.Equal(t, 7*24*time.Hour, b.MaxAge)
}

func TestBackfill_LinksOnceMappingAppears(t *testing.T) {
	db := newTestDB(t)
	k := seedProject(t, db, nil)
	svc := NewReportService(db)
	ctx := context.Background()

	r, err := svc.Submit(ctx, k, "late-evt", validForm())
	require.NoError(t, err)
	require.Nil(t, r.GroupID)

	b := NewGroupBackfiller(db, config.BackfillConfig{BatchSize: 10, MaxAge: time.Hour, Interval: time.Second})

	// Not ingested yet: nothing to link.
	n, err := b.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	g := mapEvent(t, db, k.ProjectID, "late-evt")
	n, err = b.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetUserReport(ctx, db, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, g.ID, *got.GroupID)

	// Already linked.
	n, err = b.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBackfill_RespectsMaxAgeAndBatch(t *testing.T) {
	db := newTestDB(t)
	k := seedProject(t, db, nil)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, age := range []time.Duration{3 * time.Hour, 30 * time.Minute, 20 * time.Minute, 10 * time.Minute} {
		id := []string{"stale", "a", "b", "c"}[i]
		require.NoError(t, repo.CreateUserReport(ctx, db, &domain.UserReport{
			ID: id, ProjectID: k.ProjectID, EventID: "evt-" + id,
			Name: "n", Email: "a@b.co", Comments: "c", CreatedAt: now.Add(-age),
		}))
		mapEvent(t, db, k.ProjectID, "evt-"+id)
	}

	b := NewGroupBackfiller(db, config.BackfillConfig{BatchSize: 2, MaxAge: time.Hour, Interval: time.Second})
	b.now = func() time.Time { return now }

	n, err := b.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "batch size caps a pass")

	a, _ := repo.GetUserReport(ctx, db, "a")
	c, _ := repo.GetUserReport(ctx, db, "c")
	assert.NotNil(t, a.GroupID, "oldest in window first")
	assert.Nil(t, c.GroupID)
	assert.Equal(t, 1.0, testutil.ToFloat64(observability.BackfillPending), "one left in window")

	n, err = b.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0.0, testutil.ToFloat64(observability.BackfillPending))

	stale, _ := repo.GetUserReport(ctx, db, "stale")
	assert.Nil(t, stale.GroupID, "reports outside the window are left alone")
}

func TestBackfill_Start_StopsOnCancel(t *testing.T) {
	db := newTestDB(t)
	k := seedProject(t, db, nil)
	mapEvent(t, db, k.ProjectID, "evt")
	r, err := NewReportService(db).Submit(context.Background(), k, "evt-later", validForm())
	require.NoError(t, err)
	mapEvent(t, db, k.ProjectID, "evt-later")

	b := NewGroupBackfiller(db, config.BackfillConfig{Interval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		got, err := repo.GetUserReport(context.Background(), db, r.ID)
		return err == nil && got.GroupID != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
