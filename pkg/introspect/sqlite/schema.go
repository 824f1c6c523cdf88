package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// Introspector reads schema metadata from a SQLite database file via
// sqlite_master and the table PRAGMAs. SQLite has no schemas, routines,
// sequences or user-defined types, so those listings are empty.
type Introspector struct {
	config *Config
	db     *sql.DB
	logger *zap.Logger
}

// NewIntrospector opens the database file and verifies it is readable.
// If logger is nil, a no-op logger is used.
func NewIntrospector(ctx context.Context, cfg *Config, logger *zap.Logger) (*Introspector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Introspector{config: cfg, db: db, logger: logger}, nil
}

// Dialect identifies this introspector.
func (s *Introspector) Dialect() string {
	return "sqlite"
}

// Close releases the database handle.
func (s *Introspector) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// quoteIdentifier wraps an identifier for interpolation into a PRAGMA,
// which does not accept bound parameters.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ListDatabases returns the attached databases (normally just "main").
func (s *Introspector) ListDatabases(ctx context.Context) ([]schema.DatabaseInfo, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, fmt.Errorf("query database list: %w", err)
	}
	defer rows.Close()

	var databases []schema.DatabaseInfo
	for rows.Next() {
		var seq int
		var name string
		var file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, fmt.Errorf("scan database row: %w", err)
		}
		databases = append(databases, schema.DatabaseInfo{Name: name})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate database rows: %w", err)
	}

	return databases, nil
}

// ListSchemas returns nothing; SQLite has a flat namespace.
func (s *Introspector) ListSchemas(ctx context.Context) ([]schema.SchemaInfo, error) {
	return nil, nil
}

// ListTables returns tables and views from sqlite_master. The schemaName
// argument is ignored. Internal sqlite_* tables are excluded.
func (s *Introspector) ListTables(ctx context.Context, schemaName string) ([]schema.TableInfo, error) {
	const query = `
	SELECT name, type
	FROM sqlite_master
	WHERE type IN ('table', 'view')
	  AND name NOT LIKE 'sqlite_%'
	ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.TableInfo
	for rows.Next() {
		var t schema.TableInfo
		var objectType string
		if err := rows.Scan(&t.Name, &objectType); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		if objectType == "view" {
			t.Type = schema.TableTypeView
		} else {
			t.Type = schema.TableTypeTable
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}

	s.logger.Debug("Discovered tables", zap.Int("count", len(tables)))

	return tables, nil
}

// ListViews returns views with their CREATE VIEW statements.
func (s *Introspector) ListViews(ctx context.Context, schemaName string) ([]schema.ViewInfo, error) {
	const query = `
	SELECT name, COALESCE(sql, '')
	FROM sqlite_master
	WHERE type = 'view'
	  AND name NOT LIKE 'sqlite_%'
	ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	var views []schema.ViewInfo
	for rows.Next() {
		var v schema.ViewInfo
		if err := rows.Scan(&v.Name, &v.Definition); err != nil {
			return nil, fmt.Errorf("scan view row: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view rows: %w", err)
	}

	return views, nil
}

// GetColumns returns the columns of a table via PRAGMA table_info. A lone
// INTEGER primary key column is a rowid alias and reported as
// auto-incrementing.
func (s *Introspector) GetColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.ColumnInfo
	pkCount := 0
	for rows.Next() {
		var c schema.ColumnInfo
		var cid, notNull, pkPosition int
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &c.Name, &c.DataType, &notNull, &defaultValue, &pkPosition); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		c.Ordinal = cid + 1
		c.Nullable = notNull == 0
		c.Default = defaultValue.String
		c.IsPrimaryKey = pkPosition > 0
		if c.IsPrimaryKey {
			pkCount++
		}
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}

	if pkCount == 1 {
		for i := range columns {
			if columns[i].IsPrimaryKey && strings.EqualFold(columns[i].DataType, "INTEGER") {
				columns[i].IsAutoIncrement = true
			}
		}
	}

	// Single-column unique indexes mark their column as unique.
	indexes, err := s.GetIndexes(ctx, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	for _, ix := range indexes {
		if ix.IsUnique && !ix.IsPrimary && len(ix.Columns) == 1 {
			for i := range columns {
				if columns[i].Name == ix.Columns[0] {
					columns[i].IsUnique = true
				}
			}
		}
	}

	return columns, nil
}

// GetIndexes returns the indexes of a table via PRAGMA index_list and
// index_info. Constraint-generated sqlite_autoindex entries are included
// since they represent unique and primary key constraints.
func (s *Introspector) GetIndexes(ctx context.Context, schemaName, tableName string) ([]schema.IndexInfo, error) {
	listQuery := fmt.Sprintf("PRAGMA index_list(%s)", quoteIdentifier(tableName))

	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("query index list: %w", err)
	}
	defer rows.Close()

	type indexEntry struct {
		name    string
		unique  bool
		origin  string
		partial bool
	}
	var entries []indexEntry
	for rows.Next() {
		var e indexEntry
		var seq, unique, partial int
		if err := rows.Scan(&seq, &e.name, &unique, &e.origin, &partial); err != nil {
			return nil, fmt.Errorf("scan index list row: %w", err)
		}
		e.unique = unique == 1
		e.partial = partial == 1
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index list rows: %w", err)
	}

	var indexes []schema.IndexInfo
	for _, e := range entries {
		columns, err := s.indexColumns(ctx, e.name)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, schema.IndexInfo{
			Name:      e.name,
			Columns:   columns,
			IsUnique:  e.unique,
			IsPrimary: e.origin == "pk",
		})
	}

	return indexes, nil
}

func (s *Introspector) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", quoteIdentifier(indexName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query index info for %s: %w", indexName, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("scan index info row: %w", err)
		}
		// NULL name means an expression index member.
		if name.Valid {
			columns = append(columns, name.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index info rows: %w", err)
	}

	return columns, nil
}

// GetForeignKeys returns the foreign keys of a table via PRAGMA
// foreign_key_list. SQLite foreign keys are unnamed, so a stable name is
// synthesized from the table and the constraint's list position.
func (s *Introspector) GetForeignKeys(ctx context.Context, schemaName, tableName string) ([]schema.ForeignKeyInfo, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdentifier(tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*schema.ForeignKeyInfo)
	var order []int
	for rows.Next() {
		var id, seq int
		var refTable, from, onUpdate, onDelete, match string
		var to sql.NullString
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}

		fk, ok := byID[id]
		if !ok {
			fk = &schema.ForeignKeyInfo{
				Name:            fmt.Sprintf("%s_fk_%d", tableName, id),
				ReferencedTable: refTable,
				OnUpdate:        schema.ParseForeignKeyAction(onUpdate),
				OnDelete:        schema.ParseForeignKeyAction(onDelete),
			}
			byID[id] = fk
			order = append(order, id)
		}
		fk.Columns = append(fk.Columns, from)
		if to.Valid {
			fk.ReferencedColumns = append(fk.ReferencedColumns, to.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign key rows: %w", err)
	}

	fks := make([]schema.ForeignKeyInfo, 0, len(order))
	for _, id := range order {
		fks = append(fks, *byID[id])
	}

	return fks, nil
}

// GetPrimaryKey returns the primary key of a table, or (nil, nil) when the
// table has none. SQLite primary keys are unnamed.
func (s *Introspector) GetPrimaryKey(ctx context.Context, schemaName, tableName string) (*schema.PrimaryKeyInfo, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}
	defer rows.Close()

	type pkMember struct {
		name     string
		position int
	}
	var members []pkMember
	for rows.Next() {
		var cid, notNull, pkPosition int
		var name, dataType string
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pkPosition); err != nil {
			return nil, fmt.Errorf("scan primary key row: %w", err)
		}
		if pkPosition > 0 {
			members = append(members, pkMember{name: name, position: pkPosition})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate primary key rows: %w", err)
	}

	if len(members) == 0 {
		return nil, nil
	}

	columns := make([]string, len(members))
	for _, m := range members {
		columns[m.position-1] = m.name
	}

	return &schema.PrimaryKeyInfo{Columns: columns}, nil
}

// GetConstraints returns nothing; SQLite does not expose check constraints
// outside the raw CREATE TABLE text.
func (s *Introspector) GetConstraints(ctx context.Context, schemaName, tableName string) ([]schema.ConstraintInfo, error) {
	return nil, nil
}

// ListFunctions returns nothing; SQLite has no stored functions.
func (s *Introspector) ListFunctions(ctx context.Context, schemaName string) ([]schema.FunctionInfo, error) {
	return nil, nil
}

// ListProcedures returns nothing; SQLite has no stored procedures.
func (s *Introspector) ListProcedures(ctx context.Context, schemaName string) ([]schema.ProcedureInfo, error) {
	return nil, nil
}

// ListTriggers returns triggers from sqlite_master. An empty tableName
// means triggers on all tables. SQLite triggers always fire per row and
// cannot be disabled.
func (s *Introspector) ListTriggers(ctx context.Context, schemaName, tableName string) ([]schema.TriggerInfo, error) {
	const query = `
	SELECT name, tbl_name, COALESCE(sql, '')
	FROM sqlite_master
	WHERE type = 'trigger'
	  AND (? = '' OR tbl_name = ?)
	ORDER BY tbl_name, name
	`

	rows, err := s.db.QueryContext(ctx, query, tableName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	defer rows.Close()

	var triggers []schema.TriggerInfo
	for rows.Next() {
		var tr schema.TriggerInfo
		if err := rows.Scan(&tr.Name, &tr.Table, &tr.Definition); err != nil {
			return nil, fmt.Errorf("scan trigger row: %w", err)
		}
		tr.Timing, tr.Events = parseTriggerHeader(tr.Definition)
		tr.ForEach = schema.TriggerPerRow
		tr.Enabled = true
		triggers = append(triggers, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trigger rows: %w", err)
	}

	return triggers, nil
}

// ListSequences returns nothing; SQLite has no sequence objects.
func (s *Introspector) ListSequences(ctx context.Context, schemaName string) ([]schema.SequenceInfo, error) {
	return nil, nil
}

// ListTypes returns nothing; SQLite has no user-defined types.
func (s *Introspector) ListTypes(ctx context.Context, schemaName string) ([]schema.TypeInfo, error) {
	return nil, nil
}

// parseTriggerHeader extracts the timing and event from a CREATE TRIGGER
// statement. Only the text before BEGIN is inspected so the body cannot
// produce false matches.
func parseTriggerHeader(definition string) (schema.TriggerTiming, []schema.TriggerEvent) {
	header := strings.ToUpper(definition)
	if idx := strings.Index(header, "BEGIN"); idx >= 0 {
		header = header[:idx]
	}

	timing := schema.TriggerAfter
	switch {
	case strings.Contains(header, "INSTEAD OF"):
		timing = schema.TriggerInsteadOf
	case strings.Contains(header, "BEFORE"):
		timing = schema.TriggerBefore
	}

	var events []schema.TriggerEvent
	for _, event := range []schema.TriggerEvent{schema.TriggerOnInsert, schema.TriggerOnUpdate, schema.TriggerOnDelete} {
		if strings.Contains(header, string(event)) {
			events = append(events, event)
		}
	}

	return timing, events
}

// Ensure Introspector implements introspect.SchemaIntrospector at compile time.
var _ introspect.SchemaIntrospector = (*Introspector)(nil)
