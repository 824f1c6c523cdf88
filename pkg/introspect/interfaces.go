// Package introspect defines the dialect adapter contract for reading a
// database's schema catalog, and the registry those adapters register
// into at init time. Adapters live in subpackages (postgres, mysql,
// sqlite, mssql, redis) and are pulled in with blank imports by whoever
// needs them.
package introspect

import (
	"context"

	"github.com/skylinedb/schemadiff/pkg/schema"
)

// SchemaIntrospector reads schema metadata from one live database.
// Each implementation owns its connection and must be closed when done.
//
// schemaName selects a namespace; adapters for engines without namespaces
// (SQLite, Redis) ignore it. Engines that lack an object kind entirely
// return an empty slice and a nil error for that kind, so callers can
// walk every method without checking capabilities first.
type SchemaIntrospector interface {
	// Dialect returns the registry name of the adapter, e.g. "postgres".
	Dialect() string

	ListDatabases(ctx context.Context) ([]schema.DatabaseInfo, error)
	ListSchemas(ctx context.Context) ([]schema.SchemaInfo, error)

	// ListTables returns all table-like objects in the schema, including
	// views and materialized views with their Type set accordingly.
	ListTables(ctx context.Context, schemaName string) ([]schema.TableInfo, error)
	// ListViews returns views and materialized views with definitions.
	ListViews(ctx context.Context, schemaName string) ([]schema.ViewInfo, error)

	GetColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error)
	GetIndexes(ctx context.Context, schemaName, tableName string) ([]schema.IndexInfo, error)
	GetForeignKeys(ctx context.Context, schemaName, tableName string) ([]schema.ForeignKeyInfo, error)
	// GetPrimaryKey returns nil, nil when the table has no primary key.
	GetPrimaryKey(ctx context.Context, schemaName, tableName string) (*schema.PrimaryKeyInfo, error)
	GetConstraints(ctx context.Context, schemaName, tableName string) ([]schema.ConstraintInfo, error)

	ListFunctions(ctx context.Context, schemaName string) ([]schema.FunctionInfo, error)
	ListProcedures(ctx context.Context, schemaName string) ([]schema.ProcedureInfo, error)
	// ListTriggers with an empty tableName returns every trigger in the
	// schema; otherwise only those attached to the named table.
	ListTriggers(ctx context.Context, schemaName, tableName string) ([]schema.TriggerInfo, error)
	ListSequences(ctx context.Context, schemaName string) ([]schema.SequenceInfo, error)
	ListTypes(ctx context.Context, schemaName string) ([]schema.TypeInfo, error)

	Close() error
}

// CollectTableDetails assembles the full details of one table by walking
// the per-aspect introspector methods.
func CollectTableDetails(ctx context.Context, si SchemaIntrospector, info schema.TableInfo) (*schema.TableDetails, error) {
	details := &schema.TableDetails{Info: info}

	var err error
	if details.Columns, err = si.GetColumns(ctx, info.Schema, info.Name); err != nil {
		return nil, err
	}
	if details.PrimaryKey, err = si.GetPrimaryKey(ctx, info.Schema, info.Name); err != nil {
		return nil, err
	}
	if details.Indexes, err = si.GetIndexes(ctx, info.Schema, info.Name); err != nil {
		return nil, err
	}
	if details.ForeignKeys, err = si.GetForeignKeys(ctx, info.Schema, info.Name); err != nil {
		return nil, err
	}
	if details.Constraints, err = si.GetConstraints(ctx, info.Schema, info.Name); err != nil {
		return nil, err
	}
	if details.Triggers, err = si.ListTriggers(ctx, info.Schema, info.Name); err != nil {
		return nil, err
	}
	return details, nil
}
