package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInfoQualifiedName(t *testing.T) {
	tests := []struct {
		name     string
		table    TableInfo
		expected string
	}{
		{
			name:     "with schema",
			table:    TableInfo{Schema: "public", Name: "users", Type: TableTypeTable},
			expected: "public.users",
		},
		{
			name:     "without schema",
			table:    TableInfo{Name: "users", Type: TableTypeTable},
			expected: "users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.table.QualifiedName())
		})
	}
}

func TestViewInfoQualifiedName(t *testing.T) {
	v := ViewInfo{Schema: "reporting", Name: "active_users"}
	assert.Equal(t, "reporting.active_users", v.QualifiedName())

	v.Schema = ""
	assert.Equal(t, "active_users", v.QualifiedName())
}

func TestParseForeignKeyAction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ForeignKeyAction
	}{
		{name: "information_schema cascade", input: "CASCADE", expected: ForeignKeyCascade},
		{name: "information_schema set null", input: "SET NULL", expected: ForeignKeySetNull},
		{name: "information_schema set default", input: "SET DEFAULT", expected: ForeignKeySetDefault},
		{name: "information_schema restrict", input: "RESTRICT", expected: ForeignKeyRestrict},
		{name: "information_schema no action", input: "NO ACTION", expected: ForeignKeyNoAction},
		{name: "sql server underscored", input: "SET_NULL", expected: ForeignKeySetNull},
		{name: "sql server no action", input: "NO_ACTION", expected: ForeignKeyNoAction},
		{name: "postgres catalog code cascade", input: "c", expected: ForeignKeyCascade},
		{name: "postgres catalog code restrict", input: "r", expected: ForeignKeyRestrict},
		{name: "postgres catalog code set null", input: "n", expected: ForeignKeySetNull},
		{name: "lowercase words", input: "set null", expected: ForeignKeySetNull},
		{name: "surrounding whitespace", input: "  CASCADE ", expected: ForeignKeyCascade},
		{name: "unknown falls back to no action", input: "whatever", expected: ForeignKeyNoAction},
		{name: "empty falls back to no action", input: "", expected: ForeignKeyNoAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseForeignKeyAction(tt.input))
		})
	}
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot("postgres", "appdb")

	require.NotNil(t, snap)
	assert.Equal(t, "postgres", snap.Dialect)
	assert.Equal(t, "appdb", snap.Database)
	assert.NotEmpty(t, snap.ID)
	assert.False(t, snap.CapturedAt.IsZero())
	assert.NotNil(t, snap.Details)
	assert.Zero(t, snap.ObjectCount())
}

func TestSnapshotDetailsFor(t *testing.T) {
	snap := NewSnapshot("postgres", "appdb")
	snap.Details["public.users"] = TableDetails{
		Info:    TableInfo{Schema: "public", Name: "users", Type: TableTypeTable},
		Columns: []ColumnInfo{{Name: "id", Ordinal: 1, DataType: "INTEGER"}},
	}

	details, ok := snap.DetailsFor("public.users")
	require.True(t, ok)
	assert.Equal(t, "users", details.Info.Name)
	assert.Len(t, details.Columns, 1)

	_, ok = snap.DetailsFor("public.missing")
	assert.False(t, ok)
}

func TestSnapshotObjectCount(t *testing.T) {
	snap := NewSnapshot("postgres", "appdb")
	snap.Tables = []TableInfo{{Name: "users"}, {Name: "orders"}}
	snap.Views = []ViewInfo{{Name: "active_users"}}
	snap.Sequences = []SequenceInfo{{Name: "users_id_seq"}}

	assert.Equal(t, 4, snap.ObjectCount())
}
