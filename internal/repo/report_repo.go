package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-errpage-embed/internal/domain"
)

// CreateUserReport persists r. ID and CreatedAt are filled when empty.
// Associations are never upserted; only the foreign keys are written.
func CreateUserReport(ctx context.Context, db *gorm.DB, r *domain.UserReport) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Omit("Project", "Group").Create(r).Error
}

// GetUserReport fetches a report by id.
func GetUserReport(ctx context.Context, db *gorm.DB, id string) (*domain.UserReport, error) {
	var r domain.UserReport
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListReportsByEvent returns all reports for (projectID, eventID), oldest first.
func ListReportsByEvent(ctx context.Context, db *gorm.DB, projectID uint, eventID string) ([]domain.UserReport, error) {
	var out []domain.UserReport
	err := db.WithContext(ctx).
		Where("project_id = ? AND event_id = ?", projectID, eventID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// ListUnlinkedReports returns up to limit reports that have no group yet and
// were created at or after since, oldest first.
func ListUnlinkedReports(ctx context.Context, db *gorm.DB, since time.Time, limit int) ([]domain.UserReport, error) {
	var out []domain.UserReport
	err := db.WithContext(ctx).
		Where("group_id IS NULL AND created_at >= ?", since).
		Order("created_at asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// AttachGroup sets the group of report id, but only while it is still unset.
// It returns ErrNotFound when no row was updated (missing or already linked).
func AttachGroup(ctx context.Context, db *gorm.DB, id string, groupID uint) error {
	res := db.WithContext(ctx).
		Model(&domain.UserReport{}).
		Where("id = ? AND group_id IS NULL", id).
		Update("group_id", groupID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
