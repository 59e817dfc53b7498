package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-errpage-embed/internal/domain"
	"github.com/tbourn/go-errpage-embed/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

// seedProject creates a project with one active key and returns the key with
// its project loaded.
func seedProject(t *testing.T, db *gorm.DB, origins []string) *domain.ProjectKey {
	t.Helper()
	ctx := context.Background()
	p, err := repo.CreateProject(ctx, db, "p-"+uuid.NewString()[:8], "P", origins)
	require.NoError(t, err)
	k, err := repo.CreateProjectKey(ctx, db, p.ID, "pub"+uuid.NewString()[:8], "sec")
	require.NoError(t, err)
	k.Project = *p
	return k
}

func dsnFor(k *domain.ProjectKey) string {
	return fmt.Sprintf("https://%s@errors.example.com/%d", k.PublicKey, k.ProjectID)
}

func mapEvent(t *testing.T, db *gorm.DB, projectID uint, eventID string) *domain.Group {
	t.Helper()
	ctx := context.Background()
	g, err := repo.CreateGroup(ctx, db, projectID, "fp-"+eventID, "boom")
	require.NoError(t, err)
	_, err = repo.CreateEventMapping(ctx, db, projectID, g.ID, eventID)
	require.NoError(t, err)
	return g
}
