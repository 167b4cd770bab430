package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rainbow-recipes/core/config"
	"rainbow-recipes/core/database"
	"rainbow-recipes/core/middleware/auth"
	"rainbow-recipes/core/middleware/rayid"
	"rainbow-recipes/feature/catalog"
	"rainbow-recipes/feature/recipes"
	"rainbow-recipes/feature/recipes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testRuntime(t *testing.T) *runtime {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{}
	cfg.Server.ApiKey = "k3y"
	cfg.Auth.JWTSecret = "secret"
	rt := &runtime{cfg: cfg, log: zap.NewNop(), db: db}
	t.Cleanup(rt.close)
	return rt
}

func TestNewApp(t *testing.T) {
	rt := testRuntime(t)
	app, err := newApp(rt, nil)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/catalog", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(rayid.Header))

	req = httptest.NewRequest("GET", "/catalog", nil)
	req.Header.Set(auth.APIKeyHeader, "k3y")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/nope", nil)
	req.Header.Set(auth.APIKeyHeader, "k3y")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"error"`)
}

func TestReadSeed(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
catalog:
  - name: Green  Onion
    category: produce
    approved: true
  - name: Salt
tags:
  - name: Vegan
    category: Diet
`), 0o644))

	seed, err := readSeed(good)
	require.NoError(t, err)
	require.Len(t, seed.Catalog, 2)
	assert.True(t, seed.Catalog[0].Approved)
	require.Len(t, seed.Tags, 1)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("catalog:\n  - name: Salt\n    category: rocks\n"), 0o644))
	_, err = readSeed(bad)
	assert.ErrorContains(t, err, "unknown category")

	_, err = readSeed(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestApplySeed_Idempotent(t *testing.T) {
	rt := testRuntime(t)
	items := catalog.NewService(rt.db, rt.log, nil)
	recs := recipes.NewService(rt.db, rt.log, items)
	seed := &seedFile{
		Catalog: []seedItem{{Name: "Green Onion", Category: "produce", Approved: true}, {Name: "salt"}},
		Tags:    []seedTag{{Name: "Vegan", Category: "Diet"}},
	}

	stats, err := applySeed(context.Background(), seed, items, recs)
	require.NoError(t, err)
	assert.Equal(t, seedStats{itemsCreated: 2, tagsCreated: 1}, stats)

	stats, err = applySeed(context.Background(), seed, items, recs)
	require.NoError(t, err)
	assert.Equal(t, seedStats{itemsExisting: 2, tagsExisting: 1}, stats)

	approved := true
	list, err := items.List(context.Background(), catalog.ListFilter{Approved: &approved})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Green Onion", list[0].Name)
}

func TestConfirmDestructiveAction(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirmDestructiveAction(strings.NewReader("yes\n"), &out))
	assert.False(t, confirmDestructiveAction(strings.NewReader("no\n"), &out))
	assert.False(t, confirmDestructiveAction(strings.NewReader(""), &out))

	yesConfirm = true
	t.Cleanup(func() { yesConfirm = false })
	assert.True(t, confirmDestructiveAction(strings.NewReader(""), &out))
}

func TestOpenDatabase(t *testing.T) {
	cfg := database.Config{Driver: database.DriverSQLite, Name: ":memory:"}

	t.Run("Migrated", func(t *testing.T) {
		db, err := openDatabase(cfg, models.Migrate)
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })
		assert.True(t, db.Migrator().HasTable(&models.Recipe{}))
	})

	t.Run("MigrateFailsClosesConnection", func(t *testing.T) {
		var opened *gorm.DB
		db, err := openDatabase(cfg, func(db *gorm.DB) error {
			opened = db
			return errors.New("schema is missing columns: recipe_id")
		})
		require.ErrorContains(t, err, "missing columns")
		assert.Nil(t, db)

		require.NotNil(t, opened)
		sqlDB, err := opened.DB()
		require.NoError(t, err)
		assert.Error(t, sqlDB.Ping())
	})
}
