package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
	"github.com/skylinedb/schemadiff/pkg/logging"
	"github.com/skylinedb/schemadiff/pkg/retry"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// systemSchemas are excluded from database and schema listings.
const systemSchemas = `'mysql', 'information_schema', 'performance_schema', 'sys'`

// Introspector reads schema metadata from a MySQL 8.0+ server via
// information_schema. MySQL has no sequences or user-defined types, so
// those listings are empty.
type Introspector struct {
	config *Config
	db     *sql.DB
	logger *zap.Logger
}

// NewIntrospector connects to MySQL and verifies the server is reachable.
// If logger is nil, a no-op logger is used.
func NewIntrospector(ctx context.Context, cfg *Config, logger *zap.Logger) (*Introspector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}

	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		logger.Error("failed to reach mysql after retries",
			zap.String("host", cfg.Host),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return &Introspector{config: cfg, db: db, logger: logger}, nil
}

// Dialect identifies this introspector.
func (s *Introspector) Dialect() string {
	return "mysql"
}

// Close releases the connection pool.
func (s *Introspector) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListDatabases returns all user databases with their on-disk size.
func (s *Introspector) ListDatabases(ctx context.Context) ([]schema.DatabaseInfo, error) {
	query := `
	SELECT
	    s.schema_name,
	    s.default_character_set_name,
	    COALESCE(SUM(t.data_length + t.index_length), 0) AS size_bytes
	FROM information_schema.schemata s
	LEFT JOIN information_schema.tables t ON t.table_schema = s.schema_name
	WHERE s.schema_name NOT IN (` + systemSchemas + `)
	GROUP BY s.schema_name, s.default_character_set_name
	ORDER BY s.schema_name
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
		if err := rows.Scan(&db.Name, &db.Encoding, &size); err != nil {
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

// ListSchemas returns user schemas. MySQL schemas and databases are the
// same namespace.
func (s *Introspector) ListSchemas(ctx context.Context) ([]schema.SchemaInfo, error) {
	query := `
	SELECT schema_name
	FROM information_schema.schemata
	WHERE schema_name NOT IN (` + systemSchemas + `)
	ORDER BY schema_name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query schemas: %w", err)
	}
	defer rows.Close()

	var schemas []schema.SchemaInfo
	for rows.Next() {
		var si schema.SchemaInfo
		if err := rows.Scan(&si.Name); err != nil {
			return nil, fmt.Errorf("scan schema row: %w", err)
		}
		schemas = append(schemas, si)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema rows: %w", err)
	}

	return schemas, nil
}

// ListTables returns tables and views in a schema. Row counts come from
// the storage engine's statistics and are approximate for InnoDB.
func (s *Introspector) ListTables(ctx context.Context, schemaName string) ([]schema.TableInfo, error) {
	query := `
	SELECT
	    table_schema,
	    table_name,
	    table_type,
	    table_rows,
	    data_length + index_length AS size_bytes,
	    COALESCE(table_comment, '') AS table_comment
	FROM information_schema.tables
	WHERE table_schema = ?
	ORDER BY table_name
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.TableInfo
	for rows.Next() {
		var t schema.TableInfo
		var tableType string
		var rowCount, size sql.NullInt64
		if err := rows.Scan(&t.Schema, &t.Name, &tableType, &rowCount, &size, &t.Comment); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		t.Type = tableTypeFromMySQL(tableType)
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

// ListViews returns views with their definitions. The definition is empty
// when the connected user lacks SHOW VIEW privilege.
func (s *Introspector) ListViews(ctx context.Context, schemaName string) ([]schema.ViewInfo, error) {
	query := `
	SELECT
	    table_schema,
	    table_name,
	    COALESCE(view_definition, '') AS view_definition,
	    COALESCE(definer, '') AS definer
	FROM information_schema.views
	WHERE table_schema = ?
	ORDER BY table_name
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	var views []schema.ViewInfo
	for rows.Next() {
		var v schema.ViewInfo
		if err := rows.Scan(&v.Schema, &v.Name, &v.Definition, &v.Owner); err != nil {
			return nil, fmt.Errorf("scan view row: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view rows: %w", err)
	}

	return views, nil
}

// GetColumns returns the columns of a table in ordinal order.
func (s *Introspector) GetColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error) {
	query := `
	SELECT
	    column_name,
	    ordinal_position,
	    data_type,
	    (is_nullable = 'YES') AS is_nullable,
	    COALESCE(column_default, '') AS column_default,
	    character_maximum_length,
	    numeric_precision,
	    numeric_scale,
	    (column_key = 'PRI') AS is_primary_key,
	    (extra LIKE '%auto_increment%') AS is_auto_increment,
	    (column_key = 'UNI') AS is_unique,
	    COALESCE(column_comment, '') AS column_comment
	FROM information_schema.columns
	WHERE table_schema = ? AND table_name = ?
	ORDER BY ordinal_position
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.ColumnInfo
	for rows.Next() {
		var c schema.ColumnInfo
		var maxLength, precision, scale sql.NullInt64
		if err := rows.Scan(&c.Name, &c.Ordinal, &c.DataType, &c.Nullable, &c.Default,
			&maxLength, &precision, &scale,
			&c.IsPrimaryKey, &c.IsAutoIncrement, &c.IsUnique, &c.Comment); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
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

// GetIndexes returns the indexes of a table. information_schema.statistics
// reports one row per index column, so rows are folded by index name.
func (s *Introspector) GetIndexes(ctx context.Context, schemaName, tableName string) ([]schema.IndexInfo, error) {
	query := `
	SELECT
	    index_name,
	    (non_unique = 0) AS is_unique,
	    column_name,
	    LOWER(index_type) AS index_type
	FROM information_schema.statistics
	WHERE table_schema = ? AND table_name = ?
	ORDER BY index_name, seq_in_index
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query indexes: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*schema.IndexInfo)
	var order []string
	for rows.Next() {
		var name, column, method string
		var isUnique bool
		if err := rows.Scan(&name, &isUnique, &column, &method); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}

		ix, ok := byName[name]
		if !ok {
			ix = &schema.IndexInfo{
				Name:      name,
				IsUnique:  isUnique,
				IsPrimary: name == "PRIMARY",
				Method:    method,
			}
			byName[name] = ix
			order = append(order, name)
		}
		ix.Columns = append(ix.Columns, column)
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
	SELECT
	    kcu.constraint_name,
	    kcu.column_name,
	    kcu.referenced_table_schema,
	    kcu.referenced_table_name,
	    kcu.referenced_column_name,
	    rc.update_rule,
	    rc.delete_rule
	FROM information_schema.key_column_usage kcu
	JOIN information_schema.referential_constraints rc
	    ON rc.constraint_schema = kcu.constraint_schema
	   AND rc.constraint_name = kcu.constraint_name
	WHERE kcu.table_schema = ? AND kcu.table_name = ?
	  AND kcu.referenced_table_name IS NOT NULL
	ORDER BY kcu.constraint_name, kcu.ordinal_position
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*schema.ForeignKeyInfo)
	var order []string
	for rows.Next() {
		var name, column, refSchema, refTable, refColumn, updateRule, deleteRule string
		if err := rows.Scan(&name, &column, &refSchema, &refTable, &refColumn, &updateRule, &deleteRule); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}

		fk, ok := byName[name]
		if !ok {
			fk = &schema.ForeignKeyInfo{
				Name:             name,
				ReferencedSchema: refSchema,
				ReferencedTable:  refTable,
				OnUpdate:         schema.ParseForeignKeyAction(updateRule),
				OnDelete:         schema.ParseForeignKeyAction(deleteRule),
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
// table has none. MySQL primary keys are always named PRIMARY.
func (s *Introspector) GetPrimaryKey(ctx context.Context, schemaName, tableName string) (*schema.PrimaryKeyInfo, error) {
	query := `
	SELECT column_name
	FROM information_schema.key_column_usage
	WHERE table_schema = ? AND table_name = ? AND constraint_name = 'PRIMARY'
	ORDER BY ordinal_position
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, fmt.Errorf("scan primary key row: %w", err)
		}
		columns = append(columns, column)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate primary key rows: %w", err)
	}

	if len(columns) == 0 {
		return nil, nil
	}

	return &schema.PrimaryKeyInfo{Name: "PRIMARY", Columns: columns}, nil
}

// GetConstraints returns unique and check constraints. Requires MySQL
// 8.0.16+ for information_schema.check_constraints.
func (s *Introspector) GetConstraints(ctx context.Context, schemaName, tableName string) ([]schema.ConstraintInfo, error) {
	query := `
	SELECT
	    tc.constraint_name,
	    tc.constraint_type,
	    COALESCE(GROUP_CONCAT(kcu.column_name ORDER BY kcu.ordinal_position SEPARATOR ','), '') AS columns,
	    COALESCE(cc.check_clause, '') AS check_clause
	FROM information_schema.table_constraints tc
	LEFT JOIN information_schema.key_column_usage kcu
	    ON kcu.constraint_schema = tc.constraint_schema
	   AND kcu.constraint_name = tc.constraint_name
	   AND kcu.table_name = tc.table_name
	LEFT JOIN information_schema.check_constraints cc
	    ON cc.constraint_schema = tc.constraint_schema
	   AND cc.constraint_name = tc.constraint_name
	WHERE tc.table_schema = ? AND tc.table_name = ?
	  AND tc.constraint_type IN ('UNIQUE', 'CHECK')
	GROUP BY tc.constraint_name, tc.constraint_type, cc.check_clause
	ORDER BY tc.constraint_name
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query constraints: %w", err)
	}
	defer rows.Close()

	var constraints []schema.ConstraintInfo
	for rows.Next() {
		var c schema.ConstraintInfo
		var constraintType, columns string
		if err := rows.Scan(&c.Name, &constraintType, &columns, &c.Definition); err != nil {
			return nil, fmt.Errorf("scan constraint row: %w", err)
		}
		if constraintType == "CHECK" {
			c.Type = schema.ConstraintCheck
		} else {
			c.Type = schema.ConstraintUnique
		}
		if columns != "" {
			c.Columns = strings.Split(columns, ",")
		}
		constraints = append(constraints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate constraint rows: %w", err)
	}

	return constraints, nil
}

// ListFunctions returns stored functions in a schema. The definition is
// empty when the connected user cannot read mysql.proc.
func (s *Introspector) ListFunctions(ctx context.Context, schemaName string) ([]schema.FunctionInfo, error) {
	query := `
	SELECT
	    routine_schema,
	    routine_name,
	    specific_name,
	    LOWER(routine_body) AS language,
	    COALESCE(dtd_identifier, '') AS return_type,
	    COALESCE(routine_definition, '') AS definition,
	    COALESCE(definer, '') AS definer,
	    COALESCE(routine_comment, '') AS routine_comment
	FROM information_schema.routines
	WHERE routine_schema = ? AND routine_type = 'FUNCTION'
	ORDER BY routine_name
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query functions: %w", err)
	}
	defer rows.Close()

	type pending struct {
		fn       schema.FunctionInfo
		specific string
	}
	var found []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.fn.Schema, &p.fn.Name, &p.specific, &p.fn.Language,
			&p.fn.ReturnType, &p.fn.Definition, &p.fn.Owner, &p.fn.Comment); err != nil {
			return nil, fmt.Errorf("scan function row: %w", err)
		}
		found = append(found, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate function rows: %w", err)
	}

	functions := make([]schema.FunctionInfo, 0, len(found))
	for _, p := range found {
		params, err := s.routineParameters(ctx, schemaName, p.specific)
		if err != nil {
			return nil, err
		}
		p.fn.Parameters = params
		functions = append(functions, p.fn)
	}

	return functions, nil
}

// ListProcedures returns stored procedures in a schema.
func (s *Introspector) ListProcedures(ctx context.Context, schemaName string) ([]schema.ProcedureInfo, error) {
	query := `
	SELECT
	    routine_schema,
	    routine_name,
	    specific_name,
	    LOWER(routine_body) AS language,
	    COALESCE(routine_definition, '') AS definition,
	    COALESCE(definer, '') AS definer,
	    COALESCE(routine_comment, '') AS routine_comment
	FROM information_schema.routines
	WHERE routine_schema = ? AND routine_type = 'PROCEDURE'
	ORDER BY routine_name
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query procedures: %w", err)
	}
	defer rows.Close()

	type pending struct {
		proc     schema.ProcedureInfo
		specific string
	}
	var found []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.proc.Schema, &p.proc.Name, &p.specific, &p.proc.Language,
			&p.proc.Definition, &p.proc.Owner, &p.proc.Comment); err != nil {
			return nil, fmt.Errorf("scan procedure row: %w", err)
		}
		found = append(found, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate procedure rows: %w", err)
	}

	procedures := make([]schema.ProcedureInfo, 0, len(found))
	for _, p := range found {
		params, err := s.routineParameters(ctx, schemaName, p.specific)
		if err != nil {
			return nil, err
		}
		p.proc.Parameters = params
		procedures = append(procedures, p.proc)
	}

	return procedures, nil
}

// routineParameters fetches the parameter list of one routine. Ordinal 0
// is the function return value and is skipped.
func (s *Introspector) routineParameters(ctx context.Context, schemaName, specificName string) ([]schema.ParameterInfo, error) {
	query := `
	SELECT
	    COALESCE(parameter_name, '') AS parameter_name,
	    COALESCE(dtd_identifier, '') AS data_type,
	    COALESCE(parameter_mode, 'IN') AS parameter_mode,
	    ordinal_position
	FROM information_schema.parameters
	WHERE specific_schema = ? AND specific_name = ? AND ordinal_position > 0
	ORDER BY ordinal_position
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName, specificName)
	if err != nil {
		return nil, fmt.Errorf("query parameters for %s: %w", specificName, err)
	}
	defer rows.Close()

	var params []schema.ParameterInfo
	for rows.Next() {
		var p schema.ParameterInfo
		var mode string
		if err := rows.Scan(&p.Name, &p.DataType, &mode, &p.Ordinal); err != nil {
			return nil, fmt.Errorf("scan parameter row: %w", err)
		}
		p.Mode = schema.ParameterMode(strings.ToUpper(mode))
		params = append(params, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parameter rows: %w", err)
	}

	return params, nil
}

// ListTriggers returns triggers in a schema. An empty tableName means
// triggers on all tables. MySQL triggers fire one event each, always per
// row, and cannot be disabled.
func (s *Introspector) ListTriggers(ctx context.Context, schemaName, tableName string) ([]schema.TriggerInfo, error) {
	query := `
	SELECT
	    trigger_schema,
	    trigger_name,
	    event_object_table,
	    action_timing,
	    event_manipulation,
	    COALESCE(action_statement, '') AS action_statement
	FROM information_schema.triggers
	WHERE trigger_schema = ? AND (? = '' OR event_object_table = ?)
	ORDER BY event_object_table, trigger_name
	`

	rows, err := s.db.QueryContext(ctx, query, schemaName, tableName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	defer rows.Close()

	var triggers []schema.TriggerInfo
	for rows.Next() {
		var tr schema.TriggerInfo
		var timing, event string
		if err := rows.Scan(&tr.Schema, &tr.Name, &tr.Table, &timing, &event, &tr.Definition); err != nil {
			return nil, fmt.Errorf("scan trigger row: %w", err)
		}
		tr.Timing = schema.TriggerTiming(strings.ToUpper(timing))
		tr.Events = []schema.TriggerEvent{schema.TriggerEvent(strings.ToUpper(event))}
		tr.ForEach = schema.TriggerPerRow
		tr.Enabled = true
		triggers = append(triggers, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trigger rows: %w", err)
	}

	return triggers, nil
}

// ListSequences returns nothing; MySQL has no sequence objects.
func (s *Introspector) ListSequences(ctx context.Context, schemaName string) ([]schema.SequenceInfo, error) {
	return nil, nil
}

// ListTypes returns nothing; MySQL has no user-defined types.
func (s *Introspector) ListTypes(ctx context.Context, schemaName string) ([]schema.TypeInfo, error) {
	return nil, nil
}

func tableTypeFromMySQL(tableType string) schema.TableType {
	switch tableType {
	case "VIEW":
		return schema.TableTypeView
	case "SYSTEM VIEW":
		return schema.TableTypeSystem
	default:
		return schema.TableTypeTable
	}
}

// Ensure Introspector implements introspect.SchemaIntrospector at compile time.
var _ introspect.SchemaIntrospector = (*Introspector)(nil)
