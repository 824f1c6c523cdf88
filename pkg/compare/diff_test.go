package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skylinedb/schemadiff/pkg/schema"
)

func TestNewSchemaDiffIsEmpty(t *testing.T) {
	diff := NewSchemaDiff()

	assert.True(t, diff.IsEmpty())
	assert.Zero(t, diff.ChangeCount())
	assert.False(t, diff.HasBreakingChanges())
}

func TestSchemaDiffWithAdditionsIsNotEmpty(t *testing.T) {
	diff := NewSchemaDiff()
	diff.AddedTables = append(diff.AddedTables, schema.TableInfo{Name: "users", Type: schema.TableTypeTable})

	assert.False(t, diff.IsEmpty())
	assert.Equal(t, 1, diff.ChangeCount())
	assert.False(t, diff.HasBreakingChanges(), "adding a table is not breaking")
}

func TestSchemaDiffRemovedTableIsBreaking(t *testing.T) {
	diff := NewSchemaDiff()
	diff.RemovedTables = append(diff.RemovedTables, schema.TableInfo{Name: "users", Type: schema.TableTypeTable})

	assert.True(t, diff.HasBreakingChanges())
}

func TestSchemaDiffRemovedObjectsAreBreaking(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SchemaDiff)
	}{
		{name: "removed view", mutate: func(d *SchemaDiff) {
			d.RemovedViews = []schema.ViewInfo{{Name: "v"}}
		}},
		{name: "removed function", mutate: func(d *SchemaDiff) {
			d.RemovedFunctions = []schema.FunctionInfo{{Name: "f"}}
		}},
		{name: "removed procedure", mutate: func(d *SchemaDiff) {
			d.RemovedProcedures = []schema.ProcedureInfo{{Name: "p"}}
		}},
		{name: "removed trigger", mutate: func(d *SchemaDiff) {
			d.RemovedTriggers = []schema.TriggerInfo{{Name: "trg"}}
		}},
		{name: "removed sequence", mutate: func(d *SchemaDiff) {
			d.RemovedSequences = []schema.SequenceInfo{{Name: "seq"}}
		}},
		{name: "removed type", mutate: func(d *SchemaDiff) {
			d.RemovedTypes = []schema.TypeInfo{{Name: "status"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := NewSchemaDiff()
			tt.mutate(diff)
			assert.True(t, diff.HasBreakingChanges())
		})
	}
}

func TestSchemaDiffModifiedTableSafety(t *testing.T) {
	safe := NewSchemaDiff()
	safe.ModifiedTables = []TableDiff{{
		TableName:    "users",
		AddedColumns: []schema.ColumnInfo{{Name: "email", DataType: "TEXT"}},
	}}
	assert.False(t, safe.HasBreakingChanges())

	breaking := NewSchemaDiff()
	breaking.ModifiedTables = []TableDiff{{
		TableName:      "users",
		RemovedColumns: []schema.ColumnInfo{{Name: "email", DataType: "TEXT"}},
	}}
	assert.True(t, breaking.HasBreakingChanges())
}

func TestTableDiffQualifiedName(t *testing.T) {
	withSchema := NewTableDiff("users", "public")
	assert.Equal(t, "public.users", withSchema.QualifiedName())

	withoutSchema := NewTableDiff("users", "")
	assert.Equal(t, "users", withoutSchema.QualifiedName())
}

func TestTableDiffIsEmpty(t *testing.T) {
	diff := NewTableDiff("users", "public")
	assert.True(t, diff.IsEmpty())

	diff.PrimaryKeyChange = &PrimaryKeyChange{Kind: PrimaryKeyAdded, New: &schema.PrimaryKeyInfo{Columns: []string{"id"}}}
	assert.False(t, diff.IsEmpty())
}

func TestTableDiffIsSafe(t *testing.T) {
	tests := []struct {
		name     string
		diff     TableDiff
		expected bool
	}{
		{
			name:     "empty diff is safe",
			diff:     TableDiff{TableName: "users"},
			expected: true,
		},
		{
			name: "added column is safe",
			diff: TableDiff{
				TableName:    "users",
				AddedColumns: []schema.ColumnInfo{{Name: "email"}},
			},
			expected: true,
		},
		{
			name: "removed column is unsafe",
			diff: TableDiff{
				TableName:      "users",
				RemovedColumns: []schema.ColumnInfo{{Name: "email"}},
			},
			expected: false,
		},
		{
			name: "removed index is unsafe",
			diff: TableDiff{
				TableName:      "users",
				RemovedIndexes: []schema.IndexInfo{{Name: "idx_users_email"}},
			},
			expected: false,
		},
		{
			name: "removed foreign key is unsafe",
			diff: TableDiff{
				TableName:          "orders",
				RemovedForeignKeys: []schema.ForeignKeyInfo{{Name: "fk_orders_user"}},
			},
			expected: false,
		},
		{
			name: "removed constraint is unsafe",
			diff: TableDiff{
				TableName:          "users",
				RemovedConstraints: []schema.ConstraintInfo{{Name: "chk_age"}},
			},
			expected: false,
		},
		{
			name: "nullable tightened is unsafe",
			diff: TableDiff{
				TableName: "users",
				ModifiedColumns: []ColumnDiff{{
					ColumnName:     "email",
					NullableChange: &Change[bool]{Old: true, New: false},
				}},
			},
			expected: false,
		},
		{
			name: "nullable loosened is safe",
			diff: TableDiff{
				TableName: "users",
				ModifiedColumns: []ColumnDiff{{
					ColumnName:     "email",
					NullableChange: &Change[bool]{Old: false, New: true},
				}},
			},
			expected: true,
		},
		{
			name: "primary key added is safe",
			diff: TableDiff{
				TableName:        "users",
				PrimaryKeyChange: &PrimaryKeyChange{Kind: PrimaryKeyAdded, New: &schema.PrimaryKeyInfo{Columns: []string{"id"}}},
			},
			expected: true,
		},
		{
			name: "primary key removed is unsafe",
			diff: TableDiff{
				TableName:        "users",
				PrimaryKeyChange: &PrimaryKeyChange{Kind: PrimaryKeyRemoved, Old: &schema.PrimaryKeyInfo{Columns: []string{"id"}}},
			},
			expected: false,
		},
		{
			name: "primary key modified is unsafe",
			diff: TableDiff{
				TableName: "users",
				PrimaryKeyChange: &PrimaryKeyChange{
					Kind: PrimaryKeyModified,
					Old:  &schema.PrimaryKeyInfo{Columns: []string{"id"}},
					New:  &schema.PrimaryKeyInfo{Columns: []string{"id", "tenant_id"}},
				},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diff.IsSafe())
		})
	}
}

func TestColumnDiffIsSafe(t *testing.T) {
	noNullableChange := ColumnDiff{ColumnName: "email", TypeChange: &Change[string]{Old: "INT", New: "BIGINT"}}
	assert.True(t, noNullableChange.IsSafe())

	loosened := ColumnDiff{ColumnName: "email", NullableChange: &Change[bool]{Old: false, New: true}}
	assert.True(t, loosened.IsSafe())

	tightened := ColumnDiff{ColumnName: "email", NullableChange: &Change[bool]{Old: true, New: false}}
	assert.False(t, tightened.IsSafe())
}

func TestPrimaryKeyChangeIsSafe(t *testing.T) {
	added := PrimaryKeyChange{Kind: PrimaryKeyAdded, New: &schema.PrimaryKeyInfo{Columns: []string{"id"}}}
	assert.True(t, added.IsSafe())

	removed := PrimaryKeyChange{Kind: PrimaryKeyRemoved, Old: &schema.PrimaryKeyInfo{Columns: []string{"id"}}}
	assert.False(t, removed.IsSafe())

	modified := PrimaryKeyChange{
		Kind: PrimaryKeyModified,
		Old:  &schema.PrimaryKeyInfo{Columns: []string{"id"}},
		New:  &schema.PrimaryKeyInfo{Columns: []string{"uuid"}},
	}
	assert.False(t, modified.IsSafe())
}
