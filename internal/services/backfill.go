package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-errpage-embed/internal/config"
	"github.com/tbourn/go-errpage-embed/internal/observability"
	"github.com/tbourn/go-errpage-embed/internal/repo"
)

// GroupBackfiller links reports stored without a group to the group their
// event was later ingested into.
//
// Each pass takes the oldest unlinked reports inside the MaxAge window, up to
// BatchSize, and links those whose event mapping now exists. Reports whose
// event is still unknown are retried on the next pass until they age out.
type GroupBackfiller struct {
	DB        *gorm.DB
	Interval  time.Duration
	BatchSize int
	MaxAge    time.Duration

	// now is replaceable in tests.
	now func() time.Time

	mu      sync.Mutex
	running bool
}

// NewGroupBackfiller builds a backfiller from configuration.
func NewGroupBackfiller(db *gorm.DB, cfg config.BackfillConfig) *GroupBackfiller {
	b := &GroupBackfiller{
		DB:        db,
		Interval:  cfg.Interval,
		BatchSize: cfg.BatchSize,
		MaxAge:    cfg.MaxAge,
	}
	if b.Interval <= 0 {
		b.Interval = time.Minute
	}
	if b.BatchSize <= 0 {
		b.BatchSize = 200
	}
	if b.MaxAge <= 0 {
		b.MaxAge = 7 * 24 * time.Hour
	}
	return b
}

func (b *GroupBackfiller) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now().UTC()
}

// RunOnce performs a single pass and returns how many reports were linked.
// Lookup failures for individual reports are collected and returned
// together; they do not stop the pass.
func (b *GroupBackfiller) RunOnce(ctx context.Context) (int, error) {
	ctx, span := observability.StartSpan(ctx, "backfill.run")
	defer span.End()

	since := b.clock().Add(-b.MaxAge)
	reports, err := repo.ListUnlinkedReports(ctx, b.DB, since, b.BatchSize)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	var (
		linked int
		errs   []error
	)
	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		g, err := repo.FindGroupByEvent(ctx, b.DB, r.ProjectID, r.EventID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch err := repo.AttachGroup(ctx, b.DB, r.ID, g.ID); {
		case err == nil:
			linked++
		case errors.Is(err, repo.ErrNotFound):
			// linked concurrently or deleted
		default:
			errs = append(errs, err)
		}
	}

	observability.BackfillLinked.Add(float64(linked))
	span.SetAttributes(
		attribute.Int("backfill.scanned", len(reports)),
		attribute.Int("backfill.linked", linked),
	)

	if ctx.Err() == nil {
		pending, oldest, err := repo.UnlinkedStats(ctx, b.DB, since)
		if err != nil {
			errs = append(errs, err)
		} else {
			observability.BackfillPending.Set(float64(pending))
			span.SetAttributes(attribute.Int64("backfill.pending", pending))
			if oldest != nil {
				zerolog.Ctx(ctx).Debug().
					Int64("pending", pending).
					Time("oldest", *oldest).
					Msg("backfill backlog")
			}
		}
	}
	return linked, errors.Join(errs...)
}

// Start runs a pass immediately and then every Interval until ctx is
// cancelled. A second concurrent Start returns at once.
func (b *GroupBackfiller) Start(ctx context.Context) {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	lg := zerolog.Ctx(ctx)
	lg.Info().Dur("interval", b.Interval).Int("batch", b.BatchSize).Msg("backfill started")

	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		b.pass(ctx)
		select {
		case <-ctx.Done():
			lg.Info().Msg("backfill stopped")
			return
		case <-ticker.C:
		}
	}
}

func (b *GroupBackfiller) pass(ctx context.Context) {
	n, err := b.RunOnce(ctx)
	lg := zerolog.Ctx(ctx)
	if err != nil && ctx.Err() == nil {
		lg.Error().Err(err).Int("linked", n).Msg("backfill pass failed")
		return
	}
	if n > 0 {
		lg.Info().Int("linked", n).Msg("backfill linked reports")
	}
}
