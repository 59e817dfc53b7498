package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-errpage-embed/internal/domain"
)

// FindGroupByEvent returns the group that the ingestion pipeline recorded for
// (projectID, eventID). It returns ErrNotFound when the event has not been
// ingested (or not grouped) yet.
func FindGroupByEvent(ctx context.Context, db *gorm.DB, projectID uint, eventID string) (*domain.Group, error) {
	var m domain.EventMapping
	err := db.WithContext(ctx).
		Preload("Group").
		Where("project_id = ? AND event_id = ?", projectID, eventID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m.Group, nil
}

// CreateGroup inserts a group. Only the ingestion side creates groups in
// production; the CLI and tests use this to seed data.
func CreateGroup(ctx context.Context, db *gorm.DB, projectID uint, fingerprint, message string) (*domain.Group, error) {
	g := &domain.Group{
		ProjectID:   projectID,
		Fingerprint: fingerprint,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// CreateEventMapping records that eventID belongs to groupID within projectID.
func CreateEventMapping(ctx context.Context, db *gorm.DB, projectID, groupID uint, eventID string) (*domain.EventMapping, error) {
	m := &domain.EventMapping{
		ProjectID: projectID,
		GroupID:   groupID,
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Omit("Group").Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}
