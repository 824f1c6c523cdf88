package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
	"github.com/skylinedb/schemadiff/pkg/logging"
	"github.com/skylinedb/schemadiff/pkg/retry"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// Introspector reads schema metadata from a SQL Server instance via the
// sys catalog views. SQL Server has no separate user-defined type kinds
// beyond alias and table types, which map onto domain and composite.
type Introspector struct {
	config *Config
	db     *sql.DB
	logger *zap.Logger
}

// NewIntrospector connects to SQL Server and verifies the server is
// reachable. If logger is nil, a no-op logger is used.
func NewIntrospector(ctx context.Context, cfg *Config, logger *zap.Logger) (*Introspector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlserver", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("open sqlserver connection: %w", err)
	}

	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		logger.Error("failed to reach sqlserver after retries",
			zap.String("host", cfg.Host),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("ping sqlserver: %w", err)
	}

	return &Introspector{config: cfg, db: db, logger: logger}, nil
}

// Dialect identifies this introspector.
func (s *Introspector) Dialect() string {
	return "mssql"
}

// Close releases the connection pool.
func (s *Introspector) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListDatabases returns user databases with their file sizes.
func (s *Introspector) ListDatabases(ctx context.Context) ([]schema.DatabaseInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    d.name,
	    COALESCE(SUSER_SNAME(d.owner_sid), '') AS owner,
	    COALESCE(d.collation_name, '') AS collation_name,
	    CAST(SUM(mf.size) AS bigint) * 8192 AS size_bytes
	FROM sys.databases d
	LEFT JOIN sys.master_files mf ON mf.database_id = d.database_id
	WHERE d.database_id > 4  -- Exclude master, tempdb, model, msdb
	GROUP BY d.name, d.owner_sid, d.collation_name
	ORDER BY d.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query databases: %w", err)
	}
	defer rows.Close()

	var databases []schema.DatabaseInfo
	for rows.Next() {
		var db schema.DatabaseInfo
		var size sql.NullInt64
		if err := rows.Scan(&db.Name, &db.Owner, &db.Encoding, &size); err != nil {
			return nil, fmt.Errorf("scan database row: %w", err)
		}
		if size.Valid {
			db.SizeBytes = &size.Int64
		}
		databases = append(databases, db)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate database rows: %w", err)
	}

	return databases, nil
}

// ListSchemas returns user schemas (excludes sys, INFORMATION_SCHEMA and
// the fixed database roles).
func (s *Introspector) ListSchemas(ctx context.Context) ([]schema.SchemaInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    sc.name,
	    COALESCE(p.name, '') AS owner
	FROM sys.schemas sc
	LEFT JOIN sys.database_principals p ON p.principal_id = sc.principal_id
	WHERE sc.schema_id < 16384
	  AND sc.name NOT IN ('sys', 'INFORMATION_SCHEMA', 'guest')
	ORDER BY sc.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query schemas: %w", err)
	}
	defer rows.Close()

	var schemas []schema.SchemaInfo
	for rows.Next() {
		var si schema.SchemaInfo
		if err := rows.Scan(&si.Name, &si.Owner); err != nil {
			return nil, fmt.Errorf("scan schema row: %w", err)
		}
		schemas = append(schemas, si)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema rows: %w", err)
	}

	return schemas, nil
}

// ListTables returns tables and views in a schema together with row counts
// and on-disk size from sys.partitions and sys.allocation_units.
func (s *Introspector) ListTables(ctx context.Context, schemaName string) ([]schema.TableInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(t.schema_id) AS table_schema,
	    t.name AS table_name,
	    'table' AS object_type,
	    rc.row_count,
	    rc.size_bytes,
	    CAST(COALESCE(ep.value, '') AS nvarchar(4000)) AS comment
	FROM sys.tables t
	LEFT JOIN (
	    SELECT
	        p.object_id,
	        SUM(CASE WHEN p.index_id IN (0, 1) THEN p.rows ELSE 0 END) AS row_count,
	        CAST(SUM(a.total_pages) AS bigint) * 8192 AS size_bytes
	    FROM sys.partitions p
	    JOIN sys.allocation_units a ON a.container_id = p.partition_id
	    GROUP BY p.object_id
	) rc ON rc.object_id = t.object_id
	LEFT JOIN sys.extended_properties ep
	    ON ep.major_id = t.object_id AND ep.minor_id = 0 AND ep.name = 'MS_Description'
	WHERE t.is_ms_shipped = 0
	  AND SCHEMA_NAME(t.schema_id) = @schema
	UNION ALL
	SELECT
	    SCHEMA_NAME(v.schema_id),
	    v.name,
	    'view',
	    NULL,
	    NULL,
	    CAST(COALESCE(ep.value, '') AS nvarchar(4000))
	FROM sys.views v
	LEFT JOIN sys.extended_properties ep
	    ON ep.major_id = v.object_id AND ep.minor_id = 0 AND ep.name = 'MS_Description'
	WHERE v.is_ms_shipped = 0
	  AND SCHEMA_NAME(v.schema_id) = @schema
	ORDER BY table_name
	`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("schema", schemaName))
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.TableInfo
	for rows.Next() {
		var t schema.TableInfo
		var objectType string
		var rowCount, size sql.NullInt64
		if err := rows.Scan(&t.Schema, &t.Name, &objectType, &rowCount, &size, &t.Comment); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		if objectType == "view" {
			t.Type = schema.TableTypeView
		} else {
			t.Type = schema.TableTypeTable
		}
		if rowCount.Valid {
			t.RowCount = &rowCount.Int64
		}
		if size.Valid {
			t.SizeBytes = &size.Int64
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}

	s.logger.Debug("Discovered tables",
		zap.String("schema", schemaName),
		zap.Int("count", len(tables)))

	return tables, nil
}

// ListViews returns views with their definitions. Indexed views (a
// clustered index on the view) are reported as materialized.
func (s *Introspector) ListViews(ctx context.Context, schemaName string) ([]schema.ViewInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(v.schema_id) AS view_schema,
	    v.name,
	    CASE WHEN EXISTS (
	        SELECT 1 FROM sys.indexes i
	        WHERE i.object_id = v.object_id AND i.index_id = 1
	    ) THEN 1 ELSE 0 END AS materialized,
	    COALESCE(m.definition, '') AS definition,
	    CAST(COALESCE(ep.value, '') AS nvarchar(4000)) AS comment
	FROM sys.views v
	LEFT JOIN sys.sql_modules m ON m.object_id = v.object_id
	LEFT JOIN sys.extended_properties ep
	    ON ep.major_id = v.object_id AND ep.minor_id = 0 AND ep.name = 'MS_Description'
	WHERE v.is_ms_shipped = 0
	  AND SCHEMA_NAME(v.schema_id) = @schema
	ORDER BY v.name
	`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("schema", schemaName))
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	var views []schema.ViewInfo
	for rows.Next() {
		var v schema.ViewInfo
		var materialized int
		if err := rows.Scan(&v.Schema, &v.Name, &materialized, &v.Definition, &v.Comment); err != nil {
			return nil, fmt.Errorf("scan view row: %w", err)
		}
		v.Materialized = materialized == 1
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view rows: %w", err)
	}

	return views, nil
}

// GetColumns returns the columns of a table in ordinal order. max_length
// is reported in characters for nchar/nvarchar and NULL for MAX types.
func (s *Introspector) GetColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    c.name AS column_name,
	    COLUMNPROPERTY(c.object_id, c.name, 'ordinal') AS ordinal_position,
	    tp.name AS data_type,
	    CASE WHEN c.is_nullable = 1 THEN 1 ELSE 0 END AS is_nullable,
	    COALESCE(dc.definition, '') AS column_default,
	    CAST(CASE
	        WHEN c.max_length = -1 THEN NULL
	        WHEN tp.name IN ('nchar', 'nvarchar') THEN c.max_length / 2
	        WHEN tp.name IN ('char', 'varchar', 'binary', 'varbinary') THEN c.max_length
	    END AS bigint) AS max_length,
	    CASE WHEN c.precision > 0 THEN CAST(c.precision AS int) END AS precision,
	    CASE WHEN c.precision > 0 THEN CAST(c.scale AS int) END AS scale,
	    CASE WHEN pk.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_primary_key,
	    CASE WHEN c.is_identity = 1 THEN 1 ELSE 0 END AS is_auto_increment,
	    CASE WHEN uq.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_unique,
	    CAST(COALESCE(ep.value, '') AS nvarchar(4000)) AS comment
	FROM sys.columns c
	INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
	LEFT JOIN sys.default_constraints dc ON dc.object_id = c.default_object_id
	LEFT JOIN (
	    SELECT ic.object_id, ic.column_id
	    FROM sys.index_columns ic
	    INNER JOIN sys.indexes i ON ic.object_id = i.object_id AND ic.index_id = i.index_id
	    WHERE i.is_primary_key = 1
	) pk ON c.object_id = pk.object_id AND c.column_id = pk.column_id
	LEFT JOIN (
	    -- Single-column unique indexes only; a column in a multi-column
	    -- unique index is not unique on its own.
	    SELECT ic.object_id, ic.column_id
	    FROM sys.index_columns ic
	    INNER JOIN sys.indexes i ON ic.object_id = i.object_id AND ic.index_id = i.index_id
	    WHERE i.is_unique = 1 AND i.is_primary_key = 0
	      AND (SELECT COUNT(*) FROM sys.index_columns ic2
	           WHERE ic2.object_id = i.object_id AND ic2.index_id = i.index_id
	             AND ic2.is_included_column = 0) = 1
	) uq ON c.object_id = uq.object_id AND c.column_id = uq.column_id
	LEFT JOIN sys.extended_properties ep
	    ON ep.major_id = c.object_id AND ep.minor_id = c.column_id AND ep.name = 'MS_Description'
	WHERE c.object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	ORDER BY c.column_id
	`

	rows, err := s.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", tableName),
	)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.ColumnInfo
	for rows.Next() {
		var c schema.ColumnInfo
		var isNullable, isPrimary, isIdentity, isUnique int
		var maxLength, precision, scale sql.NullInt64
		if err := rows.Scan(&c.Name, &c.Ordinal, &c.DataType, &isNullable, &c.Default,
			&maxLength, &precision, &scale,
			&isPrimary, &isIdentity, &isUnique, &c.Comment); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		c.Nullable = isNullable == 1
		c.IsPrimaryKey = isPrimary == 1
		c.IsAutoIncrement = isIdentity == 1
		c.IsUnique = isUnique == 1
		if maxLength.Valid {
			c.MaxLength = &maxLength.Int64
		}
		if precision.Valid {
			p := int32(precision.Int64)
			c.Precision = &p
		}
		if scale.Valid {
			sc := int32(scale.Int64)
			c.Scale = &sc
		}
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}

	return columns, nil
}

// GetIndexes returns the indexes of a table. Key and INCLUDE columns are
// folded from the per-column rows of sys.index_columns.
func (s *Introspector) GetIndexes(ctx context.Context, schemaName, tableName string) ([]schema.IndexInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    i.name AS index_name,
	    CASE WHEN i.is_unique = 1 THEN 1 ELSE 0 END AS is_unique,
	    CASE WHEN i.is_primary_key = 1 THEN 1 ELSE 0 END AS is_primary,
	    LOWER(i.type_desc) AS method,
	    COALESCE(i.filter_definition, '') AS predicate,
	    col.name AS column_name,
	    CASE WHEN ic.is_included_column = 1 THEN 1 ELSE 0 END AS is_included
	FROM sys.indexes i
	INNER JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
	INNER JOIN sys.columns col ON col.object_id = ic.object_id AND col.column_id = ic.column_id
	WHERE i.object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	  AND i.type > 0  -- Skip heaps
	ORDER BY i.name, ic.key_ordinal, ic.index_column_id
	`

	rows, err := s.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", tableName),
	)
	if err != nil {
		return nil, fmt.Errorf("query indexes: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*schema.IndexInfo)
	var order []string
	for rows.Next() {
		var name, method, predicate, column string
		var isUnique, isPrimary, isIncluded int
		if err := rows.Scan(&name, &isUnique, &isPrimary, &method, &predicate, &column, &isIncluded); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}

		ix, ok := byName[name]
		if !ok {
			ix = &schema.IndexInfo{
				Name:      name,
				IsUnique:  isUnique == 1,
				IsPrimary: isPrimary == 1,
				Method:    method,
				Predicate: predicate,
			}
			byName[name] = ix
			order = append(order, name)
		}
		if isIncluded == 1 {
			ix.Include = append(ix.Include, column)
		} else {
			ix.Columns = append(ix.Columns, column)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index rows: %w", err)
	}

	indexes := make([]schema.IndexInfo, 0, len(order))
	for _, name := range order {
		indexes = append(indexes, *byName[name])
	}

	return indexes, nil
}

// GetForeignKeys returns the foreign keys of a table with their
// referential actions.
func (s *Introspector) GetForeignKeys(ctx context.Context, schemaName, tableName string) ([]schema.ForeignKeyInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    fk.name AS constraint_name,
	    COL_NAME(fkc.parent_object_id, fkc.parent_column_id) AS column_name,
	    SCHEMA_NAME(rt.schema_id) AS referenced_schema,
	    rt.name AS referenced_table,
	    COL_NAME(fkc.referenced_object_id, fkc.referenced_column_id) AS referenced_column,
	    fk.update_referential_action_desc,
	    fk.delete_referential_action_desc
	FROM sys.foreign_keys fk
	INNER JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
	INNER JOIN sys.tables rt ON rt.object_id = fk.referenced_object_id
	WHERE fk.is_ms_shipped = 0
	  AND fk.parent_object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	ORDER BY fk.name, fkc.constraint_column_id
	`

	rows, err := s.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", tableName),
	)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*schema.ForeignKeyInfo)
	var order []string
	for rows.Next() {
		var name, column, refSchema, refTable, refColumn, updateAction, deleteAction string
		if err := rows.Scan(&name, &column, &refSchema, &refTable, &refColumn, &updateAction, &deleteAction); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}

		fk, ok := byName[name]
		if !ok {
			fk = &schema.ForeignKeyInfo{
				Name:             name,
				ReferencedSchema: refSchema,
				ReferencedTable:  refTable,
				OnUpdate:         schema.ParseForeignKeyAction(updateAction),
				OnDelete:         schema.ParseForeignKeyAction(deleteAction),
			}
			byName[name] = fk
			order = append(order, name)
		}
		fk.Columns = append(fk.Columns, column)
		fk.ReferencedColumns = append(fk.ReferencedColumns, refColumn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign key rows: %w", err)
	}

	fks := make([]schema.ForeignKeyInfo, 0, len(order))
	for _, name := range order {
		fks = append(fks, *byName[name])
	}

	return fks, nil
}

// GetPrimaryKey returns the primary key of a table, or (nil, nil) when the
// table has none.
func (s *Introspector) GetPrimaryKey(ctx context.Context, schemaName, tableName string) (*schema.PrimaryKeyInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    kc.name AS constraint_name,
	    col.name AS column_name
	FROM sys.key_constraints kc
	INNER JOIN sys.index_columns ic
	    ON ic.object_id = kc.parent_object_id AND ic.index_id = kc.unique_index_id
	INNER JOIN sys.columns col ON col.object_id = ic.object_id AND col.column_id = ic.column_id
	WHERE kc.type = 'PK'
	  AND kc.parent_object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	ORDER BY ic.key_ordinal
	`

	rows, err := s.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", tableName),
	)
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}
	defer rows.Close()

	var pk schema.PrimaryKeyInfo
	for rows.Next() {
		var column string
		if err := rows.Scan(&pk.Name, &column); err != nil {
			return nil, fmt.Errorf("scan primary key row: %w", err)
		}
		pk.Columns = append(pk.Columns, column)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate primary key rows: %w", err)
	}

	if len(pk.Columns) == 0 {
		return nil, nil
	}

	return &pk, nil
}

// GetConstraints returns check and unique constraints.
func (s *Introspector) GetConstraints(ctx context.Context, schemaName, tableName string) ([]schema.ConstraintInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    cc.name AS constraint_name,
	    'CHECK' AS constraint_type,
	    COALESCE(col.name, '') AS column_name,
	    COALESCE(cc.definition, '') AS definition
	FROM sys.check_constraints cc
	LEFT JOIN sys.columns col
	    ON col.object_id = cc.parent_object_id AND col.column_id = cc.parent_column_id
	WHERE cc.parent_object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	UNION ALL
	SELECT
	    kc.name,
	    'UNIQUE',
	    COALESCE(col.name, ''),
	    ''
	FROM sys.key_constraints kc
	LEFT JOIN sys.index_columns ic
	    ON ic.object_id = kc.parent_object_id AND ic.index_id = kc.unique_index_id
	LEFT JOIN sys.columns col ON col.object_id = ic.object_id AND col.column_id = ic.column_id
	WHERE kc.type = 'UQ'
	  AND kc.parent_object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	ORDER BY constraint_name
	`

	rows, err := s.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", tableName),
	)
	if err != nil {
		return nil, fmt.Errorf("query constraints: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*schema.ConstraintInfo)
	var order []string
	for rows.Next() {
		var name, constraintType, column, definition string
		if err := rows.Scan(&name, &constraintType, &column, &definition); err != nil {
			return nil, fmt.Errorf("scan constraint row: %w", err)
		}

		c, ok := byName[name]
		if !ok {
			c = &schema.ConstraintInfo{Name: name, Definition: definition}
			if constraintType == "CHECK" {
				c.Type = schema.ConstraintCheck
			} else {
				c.Type = schema.ConstraintUnique
			}
			byName[name] = c
			order = append(order, name)
		}
		if column != "" {
			c.Columns = append(c.Columns, column)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate constraint rows: %w", err)
	}

	constraints := make([]schema.ConstraintInfo, 0, len(order))
	for _, name := range order {
		constraints = append(constraints, *byName[name])
	}

	return constraints, nil
}

// ListFunctions returns scalar and table-valued functions in a schema.
func (s *Introspector) ListFunctions(ctx context.Context, schemaName string) ([]schema.FunctionInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(o.schema_id) AS function_schema,
	    o.name,
	    COALESCE(TYPE_NAME(ret.user_type_id),
	        CASE WHEN o.type IN ('IF', 'TF') THEN 'table' ELSE '' END) AS return_type,
	    COALESCE(m.definition, '') AS definition
	FROM sys.objects o
	LEFT JOIN sys.sql_modules m ON m.object_id = o.object_id
	LEFT JOIN sys.parameters ret ON ret.object_id = o.object_id AND ret.parameter_id = 0
	WHERE o.type IN ('FN', 'IF', 'TF')
	  AND o.is_ms_shipped = 0
	  AND SCHEMA_NAME(o.schema_id) = @schema
	ORDER BY o.name
	`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("schema", schemaName))
	if err != nil {
		return nil, fmt.Errorf("query functions: %w", err)
	}
	defer rows.Close()

	var functions []schema.FunctionInfo
	for rows.Next() {
		var fn schema.FunctionInfo
		if err := rows.Scan(&fn.Schema, &fn.Name, &fn.ReturnType, &fn.Definition); err != nil {
			return nil, fmt.Errorf("scan function row: %w", err)
		}
		fn.Language = "tsql"
		functions = append(functions, fn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate function rows: %w", err)
	}

	for i := range functions {
		params, err := s.routineParameters(ctx, schemaName, functions[i].Name)
		if err != nil {
			return nil, err
		}
		functions[i].Parameters = params
	}

	return functions, nil
}

// ListProcedures returns stored procedures in a schema.
func (s *Introspector) ListProcedures(ctx context.Context, schemaName string) ([]schema.ProcedureInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(p.schema_id) AS procedure_schema,
	    p.name,
	    COALESCE(m.definition, '') AS definition
	FROM sys.procedures p
	LEFT JOIN sys.sql_modules m ON m.object_id = p.object_id
	WHERE p.is_ms_shipped = 0
	  AND SCHEMA_NAME(p.schema_id) = @schema
	ORDER BY p.name
	`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("schema", schemaName))
	if err != nil {
		return nil, fmt.Errorf("query procedures: %w", err)
	}
	defer rows.Close()

	var procedures []schema.ProcedureInfo
	for rows.Next() {
		var proc schema.ProcedureInfo
		if err := rows.Scan(&proc.Schema, &proc.Name, &proc.Definition); err != nil {
			return nil, fmt.Errorf("scan procedure row: %w", err)
		}
		proc.Language = "tsql"
		procedures = append(procedures, proc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate procedure rows: %w", err)
	}

	for i := range procedures {
		params, err := s.routineParameters(ctx, schemaName, procedures[i].Name)
		if err != nil {
			return nil, err
		}
		procedures[i].Parameters = params
	}

	return procedures, nil
}

// routineParameters fetches the parameter list of one routine. Parameter 0
// is the return value and is skipped.
func (s *Introspector) routineParameters(ctx context.Context, schemaName, routineName string) ([]schema.ParameterInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    COALESCE(p.name, '') AS parameter_name,
	    TYPE_NAME(p.user_type_id) AS data_type,
	    CASE WHEN p.is_output = 1 THEN 1 ELSE 0 END AS is_output,
	    p.parameter_id
	FROM sys.parameters p
	WHERE p.object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@routine))
	  AND p.parameter_id > 0
	ORDER BY p.parameter_id
	`

	rows, err := s.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("routine", routineName),
	)
	if err != nil {
		return nil, fmt.Errorf("query parameters for %s: %w", routineName, err)
	}
	defer rows.Close()

	var params []schema.ParameterInfo
	for rows.Next() {
		var p schema.ParameterInfo
		var isOutput int
		if err := rows.Scan(&p.Name, &p.DataType, &isOutput, &p.Ordinal); err != nil {
			return nil, fmt.Errorf("scan parameter row: %w", err)
		}
		p.Name = strings.TrimPrefix(p.Name, "@")
		if isOutput == 1 {
			p.Mode = schema.ParameterOut
		} else {
			p.Mode = schema.ParameterIn
		}
		params = append(params, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parameter rows: %w", err)
	}

	return params, nil
}

// ListTriggers returns DML triggers in a schema. An empty tableName means
// triggers on all tables. SQL Server triggers fire per statement and have
// no BEFORE timing.
func (s *Introspector) ListTriggers(ctx context.Context, schemaName, tableName string) ([]schema.TriggerInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(o.schema_id) AS trigger_schema,
	    tr.name,
	    o.name AS table_name,
	    CASE WHEN tr.is_instead_of_trigger = 1 THEN 1 ELSE 0 END AS is_instead_of,
	    CASE WHEN tr.is_disabled = 1 THEN 1 ELSE 0 END AS is_disabled,
	    COALESCE(m.definition, '') AS definition,
	    COALESCE(OBJECTPROPERTY(tr.object_id, 'ExecIsInsertTrigger'), 0) AS fires_insert,
	    COALESCE(OBJECTPROPERTY(tr.object_id, 'ExecIsUpdateTrigger'), 0) AS fires_update,
	    COALESCE(OBJECTPROPERTY(tr.object_id, 'ExecIsDeleteTrigger'), 0) AS fires_delete
	FROM sys.triggers tr
	INNER JOIN sys.objects o ON o.object_id = tr.parent_id
	LEFT JOIN sys.sql_modules m ON m.object_id = tr.object_id
	WHERE tr.is_ms_shipped = 0
	  AND SCHEMA_NAME(o.schema_id) = @schema
	  AND (@table = '' OR o.name = @table)
	ORDER BY o.name, tr.name
	`

	rows, err := s.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", tableName),
	)
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	defer rows.Close()

	var triggers []schema.TriggerInfo
	for rows.Next() {
		var tr schema.TriggerInfo
		var isInsteadOf, isDisabled, firesInsert, firesUpdate, firesDelete int
		if err := rows.Scan(&tr.Schema, &tr.Name, &tr.Table, &isInsteadOf, &isDisabled,
			&tr.Definition, &firesInsert, &firesUpdate, &firesDelete); err != nil {
			return nil, fmt.Errorf("scan trigger row: %w", err)
		}
		if isInsteadOf == 1 {
			tr.Timing = schema.TriggerInsteadOf
		} else {
			tr.Timing = schema.TriggerAfter
		}
		if firesInsert == 1 {
			tr.Events = append(tr.Events, schema.TriggerOnInsert)
		}
		if firesUpdate == 1 {
			tr.Events = append(tr.Events, schema.TriggerOnUpdate)
		}
		if firesDelete == 1 {
			tr.Events = append(tr.Events, schema.TriggerOnDelete)
		}
		tr.ForEach = schema.TriggerPerStatement
		tr.Enabled = isDisabled == 0
		triggers = append(triggers, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trigger rows: %w", err)
	}

	return triggers, nil
}

// ListSequences returns sequences in a schema. The sql_variant bound
// columns are cast to bigint server-side.
func (s *Introspector) ListSequences(ctx context.Context, schemaName string) ([]schema.SequenceInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(sq.schema_id) AS sequence_schema,
	    sq.name,
	    TYPE_NAME(sq.user_type_id) AS data_type,
	    CAST(sq.start_value AS bigint) AS start_value,
	    CAST(sq.minimum_value AS bigint) AS minimum_value,
	    CAST(sq.maximum_value AS bigint) AS maximum_value,
	    CAST(sq.increment AS bigint) AS increment,
	    CASE WHEN sq.is_cycling = 1 THEN 1 ELSE 0 END AS is_cycling,
	    CAST(sq.current_value AS bigint) AS current_value
	FROM sys.sequences sq
	WHERE SCHEMA_NAME(sq.schema_id) = @schema
	ORDER BY sq.name
	`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("schema", schemaName))
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	var sequences []schema.SequenceInfo
	for rows.Next() {
		var seq schema.SequenceInfo
		var isCycling int
		var current sql.NullInt64
		if err := rows.Scan(&seq.Schema, &seq.Name, &seq.DataType, &seq.Start, &seq.Min, &seq.Max,
			&seq.IncrementBy, &isCycling, &current); err != nil {
			return nil, fmt.Errorf("scan sequence row: %w", err)
		}
		seq.Cycle = isCycling == 1
		if current.Valid {
			seq.CurrentValue = &current.Int64
		}
		sequences = append(sequences, seq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sequence rows: %w", err)
	}

	return sequences, nil
}

// ListTypes returns user-defined types. Alias types map onto domain (a
// named base type) and table types onto composite.
func (s *Introspector) ListTypes(ctx context.Context, schemaName string) ([]schema.TypeInfo, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(t.schema_id) AS type_schema,
	    t.name,
	    CASE WHEN t.is_table_type = 1 THEN 1 ELSE 0 END AS is_table_type,
	    COALESCE(TYPE_NAME(t.system_type_id), '') AS base_type
	FROM sys.types t
	WHERE t.is_user_defined = 1
	  AND SCHEMA_NAME(t.schema_id) = @schema
	ORDER BY t.name
	`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("schema", schemaName))
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}
	defer rows.Close()

	var types []schema.TypeInfo
	for rows.Next() {
		var ty schema.TypeInfo
		var isTableType int
		if err := rows.Scan(&ty.Schema, &ty.Name, &isTableType, &ty.Definition); err != nil {
			return nil, fmt.Errorf("scan type row: %w", err)
		}
		if isTableType == 1 {
			ty.Kind = schema.TypeKindComposite
		} else {
			ty.Kind = schema.TypeKindDomain
		}
		types = append(types, ty)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate type rows: %w", err)
	}

	return types, nil
}

// Ensure Introspector implements introspect.SchemaIntrospector at compile time.
var _ introspect.SchemaIntrospector = (*Introspector)(nil)
