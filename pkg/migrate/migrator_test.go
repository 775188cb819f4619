package migrate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var zoneMigrations = fstest.MapFS{
	"20260101000000_create_zones.sql": {Data: []byte(`-- +goose Up
CREATE TABLE zones (id INTEGER PRIMARY KEY, name TEXT NOT NULL);

-- +goose Down
DROP TABLE zones;
`)},
	"20260102000000_add_zone_fee.sql": {Data: []byte(`-- +goose Up
ALTER TABLE zones ADD COLUMN fee_usd TEXT;

-- +goose Down
-- +goose StatementBegin
CREATE TABLE zones_old AS SELECT id, name FROM zones;
DROP TABLE zones;
ALTER TABLE zones_old RENAME TO zones;
-- +goose StatementEnd
`)},
}

func newSQLiteMigrator(t *testing.T) *Migrator {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := newMigrator(sqlDB, goose.DialectSQLite3, zoneMigrations, nil)
	require.NoError(t, err)
	return m
}

func TestMigratorUpDownAndTo(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteMigrator(t)

	require.NoError(t, m.Up(ctx))
	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20260102000000), version)

	require.NoError(t, m.Down(ctx))
	version, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20260101000000), version)

	require.NoError(t, m.To(ctx, "20260102000000"))
	version, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20260102000000), version)

	require.NoError(t, m.To(ctx, "20260102000000"))
	require.Error(t, m.To(ctx, "latest"))
}

func TestMigratorStatusListsPendingAndApplied(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteMigrator(t)
	require.NoError(t, m.To(ctx, "20260101000000"))

	var out bytes.Buffer
	require.NoError(t, m.Status(ctx, &out))
	text := out.String()
	assert.Contains(t, text, "20260101000000_create_zones.sql")
	assert.Contains(t, text, "applied")
	assert.Contains(t, text, "pending")
}

func TestNewRequiresDB(t *testing.T) {
	_, err := New(nil, "", nil)
	require.Error(t, err)
}

func TestValidateFSRejectsBrokenAnnotations(t *testing.T) {
	cases := map[string]string{
		"20260101000000_no_down.sql":    "-- +goose Up\nSELECT 1;\n",
		"20260101000000_reversed.sql":   "-- +goose Down\nSELECT 1;\n-- +goose Up\nSELECT 1;\n",
		"20260101000000_open_block.sql": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\nSELECT 1;\n",
		"20260101000000_stray_end.sql":  "-- +goose Up\nSELECT 1;\n-- +goose StatementEnd\n-- +goose Down\nSELECT 1;\n",
		"add_zones.sql":                 "-- +goose Up\n-- +goose Down\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateFS(fstest.MapFS{name: {Data: []byte(body)}})
			require.Error(t, err)
		})
	}

	require.NoError(t, ValidateFS(zoneMigrations))
}

func TestValidateFSReportsDuplicateVersions(t *testing.T) {
	body := []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")
	err := ValidateFS(fstest.MapFS{
		"20260101000000_create_zones.sql":  {Data: body},
		"20260101000000_create_routes.sql": {Data: body},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version 20260101000000")
}

func TestMigrationSlugFoldsSpanish(t *testing.T) {
	cases := map[string]string{
		"Añadir categorías":  "anadir_categorias",
		"  Tasa BCV (VES)  ": "tasa_bcv_ves",
		"Add Banner Clicks!": "add_banner_clicks",
		"¿¡!?":               "",
		"Zona 2 -- almacén":  "zona_2_almacen",
	}
	for in, want := range cases {
		assert.Equal(t, want, migrationSlug(in), in)
	}
}

func TestCreateSQLMigrationRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	path, err := createSQLMigration(dir, "Crear zonas de entrega", at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260301093000_crear_zonas_de_entrega.sql"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), upMarker+"\n"+beginMarker))
	require.NoError(t, ValidateDir(dir))

	_, err = createSQLMigration(dir, "crear zonas de entrega", at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = createSQLMigration(dir, "???", at)
	require.Error(t, err)
}
