package main

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-errpage-embed/internal/config"
	"github.com/tbourn/go-errpage-embed/internal/domain"
	"github.com/tbourn/go-errpage-embed/internal/repo"
)

func sqliteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "errpage.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", path)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("REDIS_URL", "")
	t.Setenv("OTEL_ENABLED", "false")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"backfill", "migrate", "serve"}, names)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("LOG_LEVEL", "loud")

	_, err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestMigrateThenBackfill(t *testing.T) {
	path := sqliteEnv(t)

	_, err := run(t, "migrate")
	require.NoError(t, err)

	// Seed: a report stored before its event was ingested.
	ctx := context.Background()
	db, err := repo.OpenSQLite(path)
	require.NoError(t, err)
	p, err := repo.CreateProject(ctx, db, "shop", "Shop", nil)
	require.NoError(t, err)
	r := &domain.UserReport{ProjectID: p.ID, EventID: "late", Name: "Jane", Email: "jane@example.com", Comments: "x"}
	require.NoError(t, repo.CreateUserReport(ctx, db, r))
	g, err := repo.CreateGroup(ctx, db, p.ID, "fp", "boom")
	require.NoError(t, err)
	_, err = repo.CreateEventMapping(ctx, db, p.ID, g.ID, "late")
	require.NoError(t, err)
	require.NoError(t, closeDB(db))

	out, err := run(t, "backfill", "--batch", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "linked 1 reports")

	db, err = repo.OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = closeDB(db) }()
	got, err := repo.GetUserReport(ctx, db, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, g.ID, *got.GroupID)
}

func TestNewHTTPServer_AppliesConfig(t *testing.T) {
	cfg := config.Config{
		Port:              "9090",
		ReadTimeout:       time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      3 * time.Second,
		IdleTimeout:       4 * time.Second,
		MaxHeaderBytes:    4096,
	}
	h := http.NewServeMux()
	srv := newHTTPServer(cfg, h)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 3*time.Second, srv.WriteTimeout)
	assert.Equal(t, 4*time.Second, srv.IdleTimeout)
	assert.Equal(t, 4096, srv.MaxHeaderBytes)
	assert.Same(t, h, srv.Handler)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("PORT", "0")
	t.Setenv("BACKFILL_INTERVAL", "10ms")

	a := &app{}
	require.NoError(t, a.init())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, true) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
