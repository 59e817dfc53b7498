// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides lookups for project client keys.
//
// Error semantics:
//   - When a key is not found (or is inactive), functions return
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-errpage-embed/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// GetActiveProjectKey fetches the active key identified by (projectID,
// publicKey) with its Project preloaded. Inactive keys behave as missing.
func GetActiveProjectKey(ctx context.Context, db *gorm.DB, projectID uint, publicKey string) (*domain.ProjectKey, error) {
	var k domain.ProjectKey
	err := db.WithContext(ctx).
		Preload("Project").
		Where("project_id = ? AND public_key = ? AND active = ?", projectID, publicKey, true).
		First(&k).Error
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// CreateProject inserts a project. A nil origins slice leaves the option
// unset, which the origin policy treats as "allow all".
func CreateProject(ctx context.Context, db *gorm.DB, slug, name string, origins []string) (*domain.Project, error) {
	p := &domain.Project{
		Slug:      slug,
		Name:      name,
		Origins:   origins,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProjectKey inserts an active client key for projectID.
func CreateProjectKey(ctx context.Context, db *gorm.DB, projectID uint, publicKey, secretKey string) (*domain.ProjectKey, error) {
	k := &domain.ProjectKey{
		ProjectID: projectID,
		PublicKey: publicKey,
		SecretKey: secretKey,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(k).Error; err != nil {
		return nil, err
	}
	return k, nil
}

// SetProjectKeyActive toggles a key. Returns ErrNotFound when no row matched.
func SetProjectKeyActive(ctx context.Context, db *gorm.DB, id uint, active bool) error {
	res := db.WithContext(ctx).
		Model(&domain.ProjectKey{}).
		Where("id = ?", id).
		Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
