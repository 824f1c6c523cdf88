package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylinedb/schemadiff/pkg/apperrors"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

func sampleSnapshot() *schema.Snapshot {
	snap := schema.NewSnapshot("postgresql", "appdb")
	snap.SchemaName = "public"
	snap.Tables = []schema.TableInfo{
		{Schema: "public", Name: "users", Type: schema.TableTypeTable},
	}
	snap.Views = []schema.ViewInfo{
		{Schema: "public", Name: "active_users", Definition: "SELECT * FROM users WHERE active"},
	}
	snap.Details["public.users"] = schema.TableDetails{
		Info: schema.TableInfo{Schema: "public", Name: "users", Type: schema.TableTypeTable},
		Columns: []schema.ColumnInfo{
			{Name: "id", Ordinal: 1, DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "email", Ordinal: 2, DataType: "TEXT", Nullable: true},
		},
		PrimaryKey: &schema.PrimaryKeyInfo{Name: "users_pkey", Columns: []string{"id"}},
	}
	return snap
}

func TestSaveLoadRoundTripYAML(t *testing.T) {
	snap := sampleSnapshot()
	path := filepath.Join(t.TempDir(), "prod.yaml")

	require.NoError(t, Save(snap, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, loaded.ID)
	assert.Equal(t, "postgresql", loaded.Dialect)
	assert.Equal(t, "appdb", loaded.Database)
	assert.Equal(t, "public", loaded.SchemaName)
	assert.WithinDuration(t, snap.CapturedAt, loaded.CapturedAt, time.Second)

	require.Len(t, loaded.Tables, 1)
	require.Len(t, loaded.Views, 1)
	assert.Equal(t, "SELECT * FROM users WHERE active", loaded.Views[0].Definition)

	details, ok := loaded.DetailsFor("public.users")
	require.True(t, ok)
	require.Len(t, details.Columns, 2)
	assert.Equal(t, "email", details.Columns[1].Name)
	assert.True(t, details.Columns[1].Nullable)
	require.NotNil(t, details.PrimaryKey)
	assert.Equal(t, []string{"id"}, details.PrimaryKey.Columns)
}

func TestSaveLoadRoundTripJSON(t *testing.T) {
	snap := sampleSnapshot()
	path := filepath.Join(t.TempDir(), "prod.json")

	require.NoError(t, Save(snap, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), raw[0], "JSON extension should pick the JSON encoding")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, loaded.ID)
	assert.Equal(t, "postgresql", loaded.Dialect)
	require.Len(t, loaded.Tables, 1)
	assert.Equal(t, "users", loaded.Tables[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read snapshot file")
}

func TestLoadRejectsUnparseableFiles(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSnapshot)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSnapshot)
	})
}

func TestLoadValidatesSnapshotFields(t *testing.T) {
	t.Run("missing dialect", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snap.yaml")
		require.NoError(t, os.WriteFile(path, []byte("captured_at: 2026-01-12T08:30:00Z\n"), 0o644))

		_, err := Load(path)
		require.ErrorIs(t, err, apperrors.ErrInvalidSnapshot)
		assert.Contains(t, err.Error(), "missing dialect")
	})

	t.Run("missing capture time", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snap.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dialect: postgresql\n"), 0o644))

		_, err := Load(path)
		require.ErrorIs(t, err, apperrors.ErrInvalidSnapshot)
		assert.Contains(t, err.Error(), "missing capture time")
	})
}

func TestLoadInitializesDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.yaml")
	content := "dialect: sqlite\ncaptured_at: 2026-01-12T08:30:00Z\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, loaded.Details)
}
