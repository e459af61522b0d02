package tabledb

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aeroindex/aeroindex/internal/tables"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore() *tables.Store {
	categories := []schema.Category{
		{Name: "Terrain", Options: []schema.Option{{Label: "Flat", Score: 1}, {Label: "Hilly", Score: 3}}},
		{Name: "Runway Length", Options: []schema.Option{{Label: "Long", Score: 1}, {Label: "Short", Score: 5}}},
	}
	ifr := schema.AdjustmentTable{
		schema.IFRBaseline: {
			"Terrain":       {1: {Value: 4}, 3: {Value: 12}},
			"Runway Length": {1: {Value: 10}, 5: {Value: 50}},
		},
		schema.ATCI: {"Terrain": {3: {Value: 9, Percentage: -25}}},
	}
	vfr := schema.AdjustmentTable{
		schema.VFRBaseline: {"Runway Length": {5: {Value: 30}}},
	}
	return tables.New(categories, ifr, vfr)
}

func openTemp(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.db")
	db, err := Open(schema.SQLiteBackend, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestOpenRejectsNoneBackend(t *testing.T) {
	_, err := Open(schema.NoneBackend, "")
	assert.Error(t, err)
}

func TestOpenMigratesToLatest(t *testing.T) {
	db, _ := openTemp(t)

	version, dirty, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)
	assert.Equal(t, schema.SQLiteBackend, db.Backend())
}

func TestImportAndLoadRoundTrip(t *testing.T) {
	db, _ := openTemp(t)
	ctx := context.Background()
	src := sampleStore()

	id, err := db.Import(ctx, src, "fixtures")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, src.Categories(), loaded.Categories(), "category and option order survive")
	assert.Equal(t, src.Table(schema.IFR), loaded.Table(schema.IFR))
	assert.Equal(t, src.Table(schema.VFR), loaded.Table(schema.VFR))

	// A second import replaces rather than appends.
	id, err = db.Import(ctx, src, "fixtures again")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	status, err := db.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Categories)
	assert.Equal(t, 4, status.Options)
	assert.Equal(t, 6, status.Adjustments)
	assert.Equal(t, 3, status.Groups)
	assert.False(t, status.LastImportTime.IsZero())

	last, err := db.LastImport(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "fixtures again", last.Source)
	assert.Equal(t, 6, last.Adjustments)
}

func TestLoadEmptyDatabase(t *testing.T) {
	db, _ := openTemp(t)

	_, err := db.Load(context.Background())
	var cfgErr *tables.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))

	last, err := db.LastImport(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestMigrateDownAndUp(t *testing.T) {
	db, path := openTemp(t)
	require.NoError(t, db.Close())

	var out bytes.Buffer
	require.NoError(t, Migrate(schema.SQLiteBackend, path, 0, &out))
	assert.Contains(t, out.String(), "rolled back from version 3 to version 0")

	out.Reset()
	require.NoError(t, Migrate(schema.SQLiteBackend, path, 2, &out))
	assert.Contains(t, out.String(), "to version 2")

	out.Reset()
	require.NoError(t, Migrate(schema.SQLiteBackend, path, -1, &out))
	assert.Contains(t, out.String(), "to version 3")

	out.Reset()
	require.NoError(t, Migrate(schema.SQLiteBackend, path, -1, &out))
	assert.Contains(t, out.String(), "No migration needed")

	assert.Error(t, Migrate(schema.NoneBackend, "", -1, &out))
}

func TestLatestSchemaVersion(t *testing.T) {
	latest, err := LatestSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(3), latest)

	db, _ := openTemp(t)
	applied, dirty, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, latest, applied)
}

func TestClear(t *testing.T) {
	db, path := openTemp(t)
	require.NoError(t, db.Close())

	require.NoError(t, Clear(schema.SQLiteBackend, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, Clear(schema.SQLiteBackend, path), "missing file is fine")
	require.NoError(t, Clear(schema.NoneBackend, ""))
	assert.Error(t, Clear(schema.DatabaseBackend("oracle"), ""))
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"
	assert.Equal(t, q, rebind(schema.SQLiteBackend, q))
	assert.Equal(t, q, rebind(schema.MySQLBackend, q))
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", rebind(schema.PostgreSQLBackend, q))
}

func TestPrintTableStatus(t *testing.T) {
	var out bytes.Buffer
	PrintTableStatus(&out, schema.TableStatus{Backend: schema.SQLiteBackend, Connected: true, Categories: 2})
	assert.Contains(t, out.String(), "Table Backend: sqlite")
	assert.Contains(t, out.String(), "Categories: 2")
	assert.Contains(t, out.String(), "Last Import: never")

	out.Reset()
	PrintTableStatus(&out, schema.TableStatus{Backend: schema.MySQLBackend})
	assert.NotContains(t, out.String(), "Categories")
}
