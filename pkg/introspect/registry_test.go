package introspect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/apperrors"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// fakeIntrospector serves canned catalog data for registry and assembly
// tests.
type fakeIntrospector struct {
	closed bool
}

func (f *fakeIntrospector) Dialect() string { return "fake" }

func (f *fakeIntrospector) ListDatabases(ctx context.Context) ([]schema.DatabaseInfo, error) {
	return []schema.DatabaseInfo{{Name: "appdb"}}, nil
}

func (f *fakeIntrospector) ListSchemas(ctx context.Context) ([]schema.SchemaInfo, error) {
	return []schema.SchemaInfo{{Name: "public"}}, nil
}

func (f *fakeIntrospector) ListTables(ctx context.Context, schemaName string) ([]schema.TableInfo, error) {
	return []schema.TableInfo{{Schema: schemaName, Name: "users", Type: schema.TableTypeTable}}, nil
}

func (f *fakeIntrospector) ListViews(ctx context.Context, schemaName string) ([]schema.ViewInfo, error) {
	return nil, nil
}

func (f *fakeIntrospector) GetColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error) {
	return []schema.ColumnInfo{
		{Name: "id", Ordinal: 1, DataType: "INTEGER", IsPrimaryKey: true},
		{Name: "email", Ordinal: 2, DataType: "TEXT", Nullable: true},
	}, nil
}

func (f *fakeIntrospector) GetIndexes(ctx context.Context, schemaName, tableName string) ([]schema.IndexInfo, error) {
	return []schema.IndexInfo{{Name: "idx_users_email", Columns: []string{"email"}, IsUnique: true, Method: "btree"}}, nil
}

func (f *fakeIntrospector) GetForeignKeys(ctx context.Context, schemaName, tableName string) ([]schema.ForeignKeyInfo, error) {
	return nil, nil
}

func (f *fakeIntrospector) GetPrimaryKey(ctx context.Context, schemaName, tableName string) (*schema.PrimaryKeyInfo, error) {
	return &schema.PrimaryKeyInfo{Name: "users_pkey", Columns: []string{"id"}}, nil
}

func (f *fakeIntrospector) GetConstraints(ctx context.Context, schemaName, tableName string) ([]schema.ConstraintInfo, error) {
	return nil, nil
}

func (f *fakeIntrospector) ListFunctions(ctx context.Context, schemaName string) ([]schema.FunctionInfo, error) {
	return nil, nil
}

func (f *fakeIntrospector) ListProcedures(ctx context.Context, schemaName string) ([]schema.ProcedureInfo, error) {
	return nil, nil
}

func (f *fakeIntrospector) ListTriggers(ctx context.Context, schemaName, tableName string) ([]schema.TriggerInfo, error) {
	return nil, nil
}

func (f *fakeIntrospector) ListSequences(ctx context.Context, schemaName string) ([]schema.SequenceInfo, error) {
	return nil, nil
}

func (f *fakeIntrospector) ListTypes(ctx context.Context, schemaName string) ([]schema.TypeInfo, error) {
	return nil, nil
}

func (f *fakeIntrospector) Close() error {
	f.closed = true
	return nil
}

var _ SchemaIntrospector = (*fakeIntrospector)(nil)

func TestRegisterAndLookup(t *testing.T) {
	Register(Registration{
		Info: IntrospectorInfo{Dialect: "fake", DisplayName: "Fake", Description: "test double"},
		Factory: func(ctx context.Context, config map[string]any, logger *zap.Logger) (SchemaIntrospector, error) {
			return &fakeIntrospector{}, nil
		},
	})

	assert.True(t, IsRegistered("fake"))
	assert.NotNil(t, GetFactory("fake"))
	assert.Nil(t, GetFactory("oracle"))

	found := false
	for _, info := range RegisteredDialects() {
		if info.Dialect == "fake" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNewUnknownDialect(t *testing.T) {
	_, err := New(context.Background(), "oracle", nil, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDialectNotRegistered)
}

func TestNewBuildsIntrospector(t *testing.T) {
	Register(Registration{
		Info: IntrospectorInfo{Dialect: "fake", DisplayName: "Fake", Description: "test double"},
		Factory: func(ctx context.Context, config map[string]any, logger *zap.Logger) (SchemaIntrospector, error) {
			return &fakeIntrospector{}, nil
		},
	})

	si, err := New(context.Background(), "fake", map[string]any{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "fake", si.Dialect())
	require.NoError(t, si.Close())
}

func TestCollectTableDetails(t *testing.T) {
	si := &fakeIntrospector{}
	info := schema.TableInfo{Schema: "public", Name: "users", Type: schema.TableTypeTable}

	details, err := CollectTableDetails(context.Background(), si, info)

	require.NoError(t, err)
	assert.Equal(t, "users", details.Info.Name)
	require.Len(t, details.Columns, 2)
	assert.Equal(t, "id", details.Columns[0].Name)
	require.NotNil(t, details.PrimaryKey)
	assert.Equal(t, []string{"id"}, details.PrimaryKey.Columns)
	require.Len(t, details.Indexes, 1)
	assert.Equal(t, "idx_users_email", details.Indexes[0].Name)
}
