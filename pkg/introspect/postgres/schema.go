package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
	"github.com/skylinedb/schemadiff/pkg/logging"
	"github.com/skylinedb/schemadiff/pkg/retry"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// Introspector reads schema metadata from a PostgreSQL server via the
// pg_catalog and information_schema system catalogs.
type Introspector struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewIntrospector connects to PostgreSQL and verifies the server is
// reachable. If logger is nil, a no-op logger is used.
func NewIntrospector(ctx context.Context, cfg *Config, logger *zap.Logger) (*Introspector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		logger.Error("failed to reach postgres after retries",
			zap.String("host", cfg.Host),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Introspector{pool: pool, logger: logger}, nil
}

// Dialect identifies this introspector.
func (d *Introspector) Dialect() string {
	return "postgresql"
}

// Close releases the connection pool.
func (d *Introspector) Close() error {
	if d.pool != nil {
		d.pool.Close()
	}
	return nil
}

// ListDatabases returns all non-template databases on the server.
func (d *Introspector) ListDatabases(ctx context.Context) ([]schema.DatabaseInfo, error) {
	const query = `
		SELECT
			db.datname,
			pg_get_userbyid(db.datdba) AS owner,
			pg_encoding_to_char(db.encoding) AS encoding,
			CASE WHEN has_database_privilege(db.datname, 'CONNECT')
				THEN pg_database_size(db.datname)
			END AS size_bytes,
			COALESCE(sd.description, '') AS comment
		FROM pg_database db
		LEFT JOIN pg_shdescription sd ON sd.objoid = db.oid
		WHERE NOT db.datistemplate
		ORDER BY db.datname
	`

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query databases: %w", err)
	}
	defer rows.Close()

	var databases []schema.DatabaseInfo
	for rows.Next() {
		var db schema.DatabaseInfo
		if err := rows.Scan(&db.Name, &db.Owner, &db.Encoding, &db.SizeBytes, &db.Comment); err != nil {
			return nil, fmt.Errorf("scan database: %w", err)
		}
		databases = append(databases, db)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate databases: %w", err)
	}

	return databases, nil
}

// ListSchemas returns all user namespaces (excludes pg_catalog, toast and
// temporary namespaces).
func (d *Introspector) ListSchemas(ctx context.Context) ([]schema.SchemaInfo, error) {
	const query = `
		SELECT
			n.nspname,
			pg_get_userbyid(n.nspowner) AS owner,
			COALESCE(de.description, '') AS comment
		FROM pg_namespace n
		LEFT JOIN pg_description de ON de.objoid = n.oid
		WHERE n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		  AND n.nspname NOT LIKE 'pg_temp_%'
		  AND n.nspname NOT LIKE 'pg_toast_temp_%'
		ORDER BY n.nspname
	`

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query schemas: %w", err)
	}
	defer rows.Close()

	var schemas []schema.SchemaInfo
	for rows.Next() {
		var s schema.SchemaInfo
		if err := rows.Scan(&s.Name, &s.Owner, &s.Comment); err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		schemas = append(schemas, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schemas: %w", err)
	}

	return schemas, nil
}

// ListTables returns all table-like relations in a schema: plain and
// partitioned tables, views, materialized views and foreign tables.
// Row counts come from planner statistics; -1 (never analyzed) maps to nil.
func (d *Introspector) ListTables(ctx context.Context, schemaName string) ([]schema.TableInfo, error) {
	const query = `
		SELECT
			n.nspname,
			c.relname,
			c.relkind::text,
			pg_get_userbyid(c.relowner) AS owner,
			CASE WHEN c.relkind IN ('r', 'p', 'm')
				THEN NULLIF(c.reltuples, -1)::bigint
			END AS row_count,
			pg_total_relation_size(c.oid) AS size_bytes,
			COALESCE(de.description, '') AS comment
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_description de ON de.objoid = c.oid AND de.objsubid = 0
		WHERE c.relkind IN ('r', 'p', 'v', 'm', 'f')
		  AND n.nspname = $1
		ORDER BY c.relname
	`

	rows, err := d.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.TableInfo
	for rows.Next() {
		var t schema.TableInfo
		var relkind string
		if err := rows.Scan(&t.Schema, &t.Name, &relkind, &t.Owner, &t.RowCount, &t.SizeBytes, &t.Comment); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		t.Type = relkindToTableType(relkind)
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	d.logger.Debug("Discovered tables",
		zap.String("schema", schemaName),
		zap.Int("count", len(tables)))

	return tables, nil
}

// ListViews returns views and materialized views with their definitions.
func (d *Introspector) ListViews(ctx context.Context, schemaName string) ([]schema.ViewInfo, error) {
	const query = `
		SELECT
			n.nspname,
			c.relname,
			c.relkind = 'm' AS materialized,
			pg_get_viewdef(c.oid, true) AS definition,
			pg_get_userbyid(c.relowner) AS owner,
			COALESCE(de.description, '') AS comment
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_description de ON de.objoid = c.oid AND de.objsubid = 0
		WHERE c.relkind IN ('v', 'm')
		  AND n.nspname = $1
		ORDER BY c.relname
	`

	rows, err := d.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	var views []schema.ViewInfo
	for rows.Next() {
		var v schema.ViewInfo
		if err := rows.Scan(&v.Schema, &v.Name, &v.Materialized, &v.Definition, &v.Owner, &v.Comment); err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate views: %w", err)
	}

	return views, nil
}

// GetColumns returns the columns of a table in ordinal order.
// Primary key membership comes from pg_index.indisprimary, which correctly
// identifies keys even when created as unique indexes (common with ORMs).
func (d *Introspector) GetColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error) {
	const query = `
		SELECT
			c.column_name,
			c.ordinal_position,
			c.data_type,
			c.is_nullable = 'YES' AS is_nullable,
			COALESCE(c.column_default, '') AS column_default,
			c.character_maximum_length::bigint AS max_length,
			c.numeric_precision::int AS precision,
			c.numeric_scale::int AS scale,
			COALESCE(pk.is_pk, false) AS is_primary_key,
			(c.is_identity = 'YES' OR COALESCE(c.column_default, '') LIKE 'nextval(%') AS is_auto_increment,
			COALESCE(uq.is_unique, false) AS is_unique,
			COALESCE(col_description(cls.oid, c.ordinal_position), '') AS comment
		FROM information_schema.columns c
		JOIN pg_class cls ON cls.relname = c.table_name
		JOIN pg_namespace n ON n.oid = cls.relnamespace AND n.nspname = c.table_schema
		LEFT JOIN (
			SELECT a.attname AS column_name, true AS is_pk
			FROM pg_index ix
			JOIN pg_class t ON t.oid = ix.indrelid
			JOIN pg_namespace pn ON pn.oid = t.relnamespace
			JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
			WHERE ix.indisprimary = true
			  AND pn.nspname = $1
			  AND t.relname = $2
		) pk ON c.column_name = pk.column_name
		LEFT JOIN (
			-- Single-column unique indexes only; a column in a multi-column
			-- unique index is not unique on its own.
			SELECT a.attname AS column_name, true AS is_unique
			FROM pg_index ix
			JOIN pg_class t ON t.oid = ix.indrelid
			JOIN pg_namespace un ON un.oid = t.relnamespace
			JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
			WHERE ix.indisunique = true
			  AND ix.indisprimary = false
			  AND un.nspname = $1
			  AND t.relname = $2
			  AND array_length(ix.indkey, 1) = 1
		) uq ON c.column_name = uq.column_name
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := d.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.ColumnInfo
	for rows.Next() {
		var c schema.ColumnInfo
		if err := rows.Scan(&c.Name, &c.Ordinal, &c.DataType, &c.Nullable, &c.Default,
			&c.MaxLength, &c.Precision, &c.Scale,
			&c.IsPrimaryKey, &c.IsAutoIncrement, &c.IsUnique, &c.Comment); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}

// GetIndexes returns the indexes of a table. Key columns and INCLUDE
// columns are split on indnkeyatts; expression index members come back in
// their pg_get_indexdef rendering.
func (d *Introspector) GetIndexes(ctx context.Context, schemaName, tableName string) ([]schema.IndexInfo, error) {
	const query = `
		SELECT
			i.relname AS index_name,
			am.amname AS method,
			ix.indisunique AS is_unique,
			ix.indisprimary AS is_primary,
			COALESCE(pg_get_expr(ix.indpred, ix.indrelid, true), '') AS predicate,
			ARRAY(
				SELECT pg_get_indexdef(ix.indexrelid, k.n + 1, true)
				FROM generate_subscripts(ix.indkey, 1) AS k(n)
				WHERE k.n < ix.indnkeyatts
				ORDER BY k.n
			) AS key_columns,
			ARRAY(
				SELECT pg_get_indexdef(ix.indexrelid, k.n + 1, true)
				FROM generate_subscripts(ix.indkey, 1) AS k(n)
				WHERE k.n >= ix.indnkeyatts
				ORDER BY k.n
			) AS include_columns
		FROM pg_index ix
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_am am ON am.oid = i.relam
		WHERE n.nspname = $1 AND t.relname = $2
		ORDER BY i.relname
	`

	rows, err := d.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []schema.IndexInfo
	for rows.Next() {
		var ix schema.IndexInfo
		if err := rows.Scan(&ix.Name, &ix.Method, &ix.IsUnique, &ix.IsPrimary, &ix.Predicate, &ix.Columns, &ix.Include); err != nil {
			return nil, fmt.Errorf("scan index: %w", err)
		}
		if len(ix.Include) == 0 {
			ix.Include = nil
		}
		indexes = append(indexes, ix)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate indexes: %w", err)
	}

	return indexes, nil
}

// GetForeignKeys returns the foreign keys of a table with their referential
// actions and deferrability.
func (d *Introspector) GetForeignKeys(ctx context.Context, schemaName, tableName string) ([]schema.ForeignKeyInfo, error) {
	const query = `
		SELECT
			con.conname,
			ARRAY(
				SELECT att.attname
				FROM unnest(con.conkey) WITH ORDINALITY AS u(attnum, ord)
				JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = u.attnum
				ORDER BY u.ord
			) AS columns,
			fn.nspname AS referenced_schema,
			ft.relname AS referenced_table,
			ARRAY(
				SELECT att.attname
				FROM unnest(con.confkey) WITH ORDINALITY AS u(attnum, ord)
				JOIN pg_attribute att ON att.attrelid = con.confrelid AND att.attnum = u.attnum
				ORDER BY u.ord
			) AS referenced_columns,
			con.confupdtype::text,
			con.confdeltype::text,
			con.condeferrable,
			con.condeferred
		FROM pg_constraint con
		JOIN pg_class t ON t.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_class ft ON ft.oid = con.confrelid
		JOIN pg_namespace fn ON fn.oid = ft.relnamespace
		WHERE con.contype = 'f'
		  AND n.nspname = $1
		  AND t.relname = $2
		ORDER BY con.conname
	`

	rows, err := d.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []schema.ForeignKeyInfo
	for rows.Next() {
		var fk schema.ForeignKeyInfo
		var onUpdate, onDelete string
		if err := rows.Scan(&fk.Name, &fk.Columns, &fk.ReferencedSchema, &fk.ReferencedTable,
			&fk.ReferencedColumns, &onUpdate, &onDelete, &fk.Deferrable, &fk.InitiallyDeferred); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		fk.OnUpdate = schema.ParseForeignKeyAction(onUpdate)
		fk.OnDelete = schema.ParseForeignKeyAction(onDelete)
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign keys: %w", err)
	}

	return fks, nil
}

// GetPrimaryKey returns the primary key of a table, or (nil, nil) when the
// table has none.
func (d *Introspector) GetPrimaryKey(ctx context.Context, schemaName, tableName string) (*schema.PrimaryKeyInfo, error) {
	const query = `
		SELECT
			con.conname,
			ARRAY(
				SELECT att.attname
				FROM unnest(con.conkey) WITH ORDINALITY AS u(attnum, ord)
				JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = u.attnum
				ORDER BY u.ord
			) AS columns
		FROM pg_constraint con
		JOIN pg_class t ON t.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE con.contype = 'p'
		  AND n.nspname = $1
		  AND t.relname = $2
	`

	var pk schema.PrimaryKeyInfo
	err := d.pool.QueryRow(ctx, query, schemaName, tableName).Scan(&pk.Name, &pk.Columns)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}

	return &pk, nil
}

// GetConstraints returns check, unique and exclusion constraints. Primary
// and foreign keys are reported by their own methods.
func (d *Introspector) GetConstraints(ctx context.Context, schemaName, tableName string) ([]schema.ConstraintInfo, error) {
	const query = `
		SELECT
			con.conname,
			con.contype::text,
			ARRAY(
				SELECT att.attname
				FROM unnest(con.conkey) WITH ORDINALITY AS u(attnum, ord)
				JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = u.attnum
				ORDER BY u.ord
			) AS columns,
			pg_get_constraintdef(con.oid, true) AS definition
		FROM pg_constraint con
		JOIN pg_class t ON t.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE con.contype IN ('c', 'u', 'x')
		  AND n.nspname = $1
		  AND t.relname = $2
		ORDER BY con.conname
	`

	rows, err := d.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query constraints: %w", err)
	}
	defer rows.Close()

	var constraints []schema.ConstraintInfo
	for rows.Next() {
		var c schema.ConstraintInfo
		var contype string
		if err := rows.Scan(&c.Name, &contype, &c.Columns, &c.Definition); err != nil {
			return nil, fmt.Errorf("scan constraint: %w", err)
		}
		switch contype {
		case "c":
			c.Type = schema.ConstraintCheck
		case "u":
			c.Type = schema.ConstraintUnique
		case "x":
			c.Type = schema.ConstraintExclusion
		}
		constraints = append(constraints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate constraints: %w", err)
	}

	return constraints, nil
}

// ListFunctions returns user-defined functions in a schema. C and internal
// functions are excluded since pg_get_functiondef cannot render them.
func (d *Introspector) ListFunctions(ctx context.Context, schemaName string) ([]schema.FunctionInfo, error) {
	const query = `
		SELECT
			n.nspname,
			p.proname,
			l.lanname,
			pg_get_function_result(p.oid) AS return_type,
			pg_get_functiondef(p.oid) AS definition,
			pg_get_function_arguments(p.oid) AS arguments,
			pg_get_userbyid(p.proowner) AS owner,
			COALESCE(de.description, '') AS comment
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		JOIN pg_language l ON l.oid = p.prolang
		LEFT JOIN pg_description de ON de.objoid = p.oid
		WHERE p.prokind = 'f'
		  AND l.lanname NOT IN ('c', 'internal')
		  AND n.nspname = $1
		ORDER BY p.proname
	`

	rows, err := d.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query functions: %w", err)
	}
	defer rows.Close()

	var functions []schema.FunctionInfo
	for rows.Next() {
		var fn schema.FunctionInfo
		var arguments string
		if err := rows.Scan(&fn.Schema, &fn.Name, &fn.Language, &fn.ReturnType,
			&fn.Definition, &arguments, &fn.Owner, &fn.Comment); err != nil {
			return nil, fmt.Errorf("scan function: %w", err)
		}
		fn.Parameters = parseRoutineArguments(arguments)
		functions = append(functions, fn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate functions: %w", err)
	}

	return functions, nil
}

// ListProcedures returns stored procedures in a schema.
func (d *Introspector) ListProcedures(ctx context.Context, schemaName string) ([]schema.ProcedureInfo, error) {
	const query = `
		SELECT
			n.nspname,
			p.proname,
			l.lanname,
			pg_get_functiondef(p.oid) AS definition,
			pg_get_function_arguments(p.oid) AS arguments,
			pg_get_userbyid(p.proowner) AS owner,
			COALESCE(de.description, '') AS comment
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		JOIN pg_language l ON l.oid = p.prolang
		LEFT JOIN pg_description de ON de.objoid = p.oid
		WHERE p.prokind = 'p'
		  AND l.lanname NOT IN ('c', 'internal')
		  AND n.nspname = $1
		ORDER BY p.proname
	`

	rows, err := d.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query procedures: %w", err)
	}
	defer rows.Close()

	var procedures []schema.ProcedureInfo
	for rows.Next() {
		var proc schema.ProcedureInfo
		var arguments string
		if err := rows.Scan(&proc.Schema, &proc.Name, &proc.Language,
			&proc.Definition, &arguments, &proc.Owner, &proc.Comment); err != nil {
			return nil, fmt.Errorf("scan procedure: %w", err)
		}
		proc.Parameters = parseRoutineArguments(arguments)
		procedures = append(procedures, proc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate procedures: %w", err)
	}

	return procedures, nil
}

// ListTriggers returns user triggers in a schema. An empty tableName means
// triggers on all tables.
func (d *Introspector) ListTriggers(ctx context.Context, schemaName, tableName string) ([]schema.TriggerInfo, error) {
	const query = `
		SELECT
			n.nspname,
			tg.tgname,
			t.relname AS table_name,
			tg.tgtype,
			tg.tgenabled::text,
			pg_get_triggerdef(tg.oid, true) AS definition,
			COALESCE(de.description, '') AS comment
		FROM pg_trigger tg
		JOIN pg_class t ON t.oid = tg.tgrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		LEFT JOIN pg_description de ON de.objoid = tg.oid
		WHERE NOT tg.tgisinternal
		  AND n.nspname = $1
		  AND ($2 = '' OR t.relname = $2)
		ORDER BY t.relname, tg.tgname
	`

	rows, err := d.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	defer rows.Close()

	var triggers []schema.TriggerInfo
	for rows.Next() {
		var tr schema.TriggerInfo
		var tgType int16
		var enabled string
		if err := rows.Scan(&tr.Schema, &tr.Name, &tr.Table, &tgType, &enabled, &tr.Definition, &tr.Comment); err != nil {
			return nil, fmt.Errorf("scan trigger: %w", err)
		}
		tr.Timing, tr.Events, tr.ForEach = decodeTriggerType(tgType)
		// tgenabled: O=origin, A=always, R=replica, D=disabled.
		tr.Enabled = enabled != "D"
		triggers = append(triggers, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate triggers: %w", err)
	}

	return triggers, nil
}

// ListSequences returns sequences in a schema. last_value is nil when the
// sequence has never been used or the caller lacks privileges.
func (d *Introspector) ListSequences(ctx context.Context, schemaName string) ([]schema.SequenceInfo, error) {
	const query = `
		SELECT
			s.schemaname,
			s.sequencename,
			s.data_type::text,
			s.start_value,
			s.min_value,
			s.max_value,
			s.increment_by,
			s.cycle,
			s.last_value,
			s.sequenceowner,
			COALESCE(de.description, '') AS comment
		FROM pg_sequences s
		JOIN pg_class c ON c.relname = s.sequencename AND c.relkind = 'S'
		JOIN pg_namespace n ON n.oid = c.relnamespace AND n.nspname = s.schemaname
		LEFT JOIN pg_description de ON de.objoid = c.oid
		WHERE s.schemaname = $1
		ORDER BY s.sequencename
	`

	rows, err := d.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	var sequences []schema.SequenceInfo
	for rows.Next() {
		var seq schema.SequenceInfo
		if err := rows.Scan(&seq.Schema, &seq.Name, &seq.DataType, &seq.Start, &seq.Min, &seq.Max,
			&seq.IncrementBy, &seq.Cycle, &seq.CurrentValue, &seq.Owner, &seq.Comment); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		sequences = append(sequences, seq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sequences: %w", err)
	}

	return sequences, nil
}

// ListTypes returns user-defined types: enums with their labels, composites
// with their attribute list, domains with their base type and ranges with
// their subtype. Implicit array types and table row types are excluded.
func (d *Introspector) ListTypes(ctx context.Context, schemaName string) ([]schema.TypeInfo, error) {
	const query = `
		SELECT
			n.nspname,
			t.typname,
			t.typtype::text,
			ARRAY(
				SELECT e.enumlabel
				FROM pg_enum e
				WHERE e.enumtypid = t.oid
				ORDER BY e.enumsortorder
			) AS enum_values,
			COALESCE(CASE
				WHEN t.typtype = 'd' THEN format_type(t.typbasetype, t.typtypmod)
				WHEN t.typtype = 'c' THEN (
					SELECT string_agg(a.attname || ' ' || format_type(a.atttypid, a.atttypmod), ', ' ORDER BY a.attnum)
					FROM pg_attribute a
					WHERE a.attrelid = t.typrelid AND a.attnum > 0 AND NOT a.attisdropped
				)
				WHEN t.typtype = 'r' THEN (
					SELECT format_type(r.rngsubtype, NULL)
					FROM pg_range r
					WHERE r.rngtypid = t.oid
				)
			END, '') AS definition,
			pg_get_userbyid(t.typowner) AS owner,
			COALESCE(de.description, '') AS comment
		FROM pg_type t
		JOIN pg_namespace n ON n.oid = t.typnamespace
		LEFT JOIN pg_description de ON de.objoid = t.oid
		WHERE n.nspname = $1
		  AND t.typtype IN ('e', 'c', 'd', 'r')
		  AND (t.typtype != 'c' OR EXISTS (
			SELECT 1 FROM pg_class c WHERE c.oid = t.typrelid AND c.relkind = 'c'
		  ))
		  AND NOT EXISTS (
			SELECT 1 FROM pg_type el WHERE el.oid = t.typelem AND el.typarray = t.oid
		  )
		ORDER BY t.typname
	`

	rows, err := d.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}
	defer rows.Close()

	var types []schema.TypeInfo
	for rows.Next() {
		var ty schema.TypeInfo
		var typtype string
		if err := rows.Scan(&ty.Schema, &ty.Name, &typtype, &ty.Values, &ty.Definition, &ty.Owner, &ty.Comment); err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		ty.Kind = typtypeToKind(typtype)
		if len(ty.Values) == 0 {
			ty.Values = nil
		}
		types = append(types, ty)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate types: %w", err)
	}

	return types, nil
}

func relkindToTableType(relkind string) schema.TableType {
	switch relkind {
	case "r", "p":
		return schema.TableTypeTable
	case "v":
		return schema.TableTypeView
	case "m":
		return schema.TableTypeMaterializedView
	case "f":
		return schema.TableTypeForeignTable
	default:
		return schema.TableTypeTable
	}
}

func typtypeToKind(typtype string) schema.TypeKind {
	switch typtype {
	case "e":
		return schema.TypeKindEnum
	case "c":
		return schema.TypeKindComposite
	case "d":
		return schema.TypeKindDomain
	case "r":
		return schema.TypeKindRange
	default:
		return schema.TypeKindBase
	}
}

// decodeTriggerType unpacks the pg_trigger.tgtype bitmask.
func decodeTriggerType(tgType int16) (schema.TriggerTiming, []schema.TriggerEvent, schema.TriggerForEach) {
	const (
		bitRow      = 1 << 0
		bitBefore   = 1 << 1
		bitInsert   = 1 << 2
		bitDelete   = 1 << 3
		bitUpdate   = 1 << 4
		bitTruncate = 1 << 5
		bitInstead  = 1 << 6
	)

	timing := schema.TriggerAfter
	if tgType&bitInstead != 0 {
		timing = schema.TriggerInsteadOf
	} else if tgType&bitBefore != 0 {
		timing = schema.TriggerBefore
	}

	var events []schema.TriggerEvent
	if tgType&bitInsert != 0 {
		events = append(events, schema.TriggerOnInsert)
	}
	if tgType&bitUpdate != 0 {
		events = append(events, schema.TriggerOnUpdate)
	}
	if tgType&bitDelete != 0 {
		events = append(events, schema.TriggerOnDelete)
	}
	if tgType&bitTruncate != 0 {
		events = append(events, schema.TriggerOnTruncate)
	}

	forEach := schema.TriggerPerStatement
	if tgType&bitRow != 0 {
		forEach = schema.TriggerPerRow
	}

	return timing, events, forEach
}

// multiwordTypePrefixes are leading words of SQL type names that would
// otherwise be mistaken for a parameter name ("double precision",
// "character varying", "timestamp with time zone", ...).
var multiwordTypePrefixes = map[string]bool{
	"double":    true,
	"character": true,
	"timestamp": true,
	"time":      true,
	"bit":       true,
	"interval":  true,
	"national":  true,
}

// parseRoutineArguments parses the output of pg_get_function_arguments,
// e.g. `a integer, INOUT b text DEFAULT 'x', VARIADIC rest numeric[]`.
func parseRoutineArguments(arguments string) []schema.ParameterInfo {
	arguments = strings.TrimSpace(arguments)
	if arguments == "" {
		return nil
	}

	var params []schema.ParameterInfo
	for i, part := range splitTopLevel(arguments) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		p := schema.ParameterInfo{Mode: schema.ParameterIn, Ordinal: i + 1}

		upper := strings.ToUpper(part)
		switch {
		case strings.HasPrefix(upper, "INOUT "):
			p.Mode = schema.ParameterInOut
			part = part[len("INOUT "):]
		case strings.HasPrefix(upper, "OUT "):
			p.Mode = schema.ParameterOut
			part = part[len("OUT "):]
		case strings.HasPrefix(upper, "VARIADIC "):
			p.Mode = schema.ParameterVariadic
			part = part[len("VARIADIC "):]
		case strings.HasPrefix(upper, "IN "):
			part = part[len("IN "):]
		}

		if idx := strings.Index(strings.ToUpper(part), " DEFAULT "); idx >= 0 {
			p.Default = strings.TrimSpace(part[idx+len(" DEFAULT "):])
			part = strings.TrimSpace(part[:idx])
		}

		name, dataType, ok := strings.Cut(part, " ")
		if ok && !multiwordTypePrefixes[strings.ToLower(name)] {
			p.Name = name
			p.DataType = strings.TrimSpace(dataType)
		} else {
			p.DataType = strings.TrimSpace(part)
		}

		params = append(params, p)
	}

	return params
}

// splitTopLevel splits on commas that are not nested inside parentheses,
// quotes or brackets.
func splitTopLevel(s string) []string {
	var parts []string
	var depth int
	var inQuote rune
	start := 0

	for i, r := range s {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			}
		case r == '\'' || r == '"':
			inQuote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])

	return parts
}

// Ensure Introspector implements introspect.SchemaIntrospector at compile time.
var _ introspect.SchemaIntrospector = (*Introspector)(nil)
