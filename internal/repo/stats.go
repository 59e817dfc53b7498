// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries over user
// reports, used by the group backfiller to report its backlog.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-errpage-embed/internal/domain"
)

// UnlinkedStats returns how many reports created at or after since still
// have no group, and the creation time of the oldest of them.
//
// When nothing is pending the count is 0 and oldest is nil.
func UnlinkedStats(ctx context.Context, db *gorm.DB, since time.Time) (count int64, oldest *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.UserReport{}).
		Where("group_id IS NULL AND created_at >= ?", since)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Ordered select instead of MIN(), which SQLite returns as TEXT.
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at ASC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
