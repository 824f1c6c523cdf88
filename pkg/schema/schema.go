// Package schema defines the dialect-neutral model for database schema
// snapshots: tables, columns, indexes, constraints, views, routines,
// triggers, sequences, and user-defined types. Introspectors populate
// these structures and the compare package diffs them; nothing in this
// package touches a database.
package schema

import "strings"

// TableType classifies a table-like object.
type TableType string

const (
	TableTypeTable            TableType = "table"
	TableTypeView             TableType = "view"
	TableTypeMaterializedView TableType = "materialized_view"
	TableTypeForeignTable     TableType = "foreign_table"
	TableTypeTemporary        TableType = "temporary"
	TableTypeSystem           TableType = "system"
)

// ForeignKeyAction is a referential action fired on update or delete of
// a referenced row. Values match the information_schema spelling.
type ForeignKeyAction string

const (
	ForeignKeyNoAction   ForeignKeyAction = "NO ACTION"
	ForeignKeyRestrict   ForeignKeyAction = "RESTRICT"
	ForeignKeyCascade    ForeignKeyAction = "CASCADE"
	ForeignKeySetNull    ForeignKeyAction = "SET NULL"
	ForeignKeySetDefault ForeignKeyAction = "SET DEFAULT"
)

// ParseForeignKeyAction normalizes the referential action spellings found
// in system catalogs: information_schema words, SQL Server's underscored
// *_desc values, and PostgreSQL's single-letter pg_constraint codes.
// Unrecognized input maps to NO ACTION.
func ParseForeignKeyAction(s string) ForeignKeyAction {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	switch normalized {
	case "RESTRICT", "R":
		return ForeignKeyRestrict
	case "CASCADE", "C":
		return ForeignKeyCascade
	case "SET NULL", "N":
		return ForeignKeySetNull
	case "SET DEFAULT", "D":
		return ForeignKeySetDefault
	default:
		return ForeignKeyNoAction
	}
}

// ConstraintType classifies a table constraint.
type ConstraintType string

const (
	ConstraintPrimaryKey ConstraintType = "PRIMARY KEY"
	ConstraintForeignKey ConstraintType = "FOREIGN KEY"
	ConstraintUnique     ConstraintType = "UNIQUE"
	ConstraintCheck      ConstraintType = "CHECK"
	ConstraintExclusion  ConstraintType = "EXCLUSION"
)

// ParameterMode is the direction of a routine parameter.
type ParameterMode string

const (
	ParameterIn       ParameterMode = "IN"
	ParameterOut      ParameterMode = "OUT"
	ParameterInOut    ParameterMode = "INOUT"
	ParameterVariadic ParameterMode = "VARIADIC"
)

// TriggerTiming says when a trigger fires relative to the triggering statement.
type TriggerTiming string

const (
	TriggerBefore    TriggerTiming = "BEFORE"
	TriggerAfter     TriggerTiming = "AFTER"
	TriggerInsteadOf TriggerTiming = "INSTEAD OF"
)

// TriggerEvent is a statement kind that can fire a trigger.
type TriggerEvent string

const (
	TriggerOnInsert   TriggerEvent = "INSERT"
	TriggerOnUpdate   TriggerEvent = "UPDATE"
	TriggerOnDelete   TriggerEvent = "DELETE"
	TriggerOnTruncate TriggerEvent = "TRUNCATE"
)

// TriggerForEach is the trigger granularity.
type TriggerForEach string

const (
	TriggerPerRow       TriggerForEach = "ROW"
	TriggerPerStatement TriggerForEach = "STATEMENT"
)

// TypeKind classifies a user-defined type.
type TypeKind string

const (
	TypeKindEnum      TypeKind = "enum"
	TypeKindComposite TypeKind = "composite"
	TypeKindDomain    TypeKind = "domain"
	TypeKindRange     TypeKind = "range"
	TypeKindBase      TypeKind = "base"
)

// DatabaseInfo describes a database visible on a server.
type DatabaseInfo struct {
	Name      string `json:"name" yaml:"name"`
	Owner     string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Encoding  string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	SizeBytes *int64 `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	Comment   string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// SchemaInfo describes a namespace within a database.
type SchemaInfo struct {
	Name    string `json:"name" yaml:"name"`
	Owner   string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// TableInfo is the listing-level description of a table-like object.
// Row and size counts are estimates from the engine's statistics and may
// be nil on engines that do not report them.
type TableInfo struct {
	Schema    string        `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name      string        `json:"name" yaml:"name"`
	Type      TableType     `json:"type" yaml:"type"`
	Owner     string        `json:"owner,omitempty" yaml:"owner,omitempty"`
	RowCount  *int64        `json:"row_count,omitempty" yaml:"row_count,omitempty"`
	SizeBytes *int64        `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	Comment   string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	KeyValue  *KeyValueInfo `json:"key_value,omitempty" yaml:"key_value,omitempty"`
}

// QualifiedName returns "schema.name", or just the name when the object
// has no schema (SQLite, Redis).
func (t TableInfo) QualifiedName() string {
	if t.Schema != "" {
		return t.Schema + "." + t.Name
	}
	return t.Name
}

// KeyValueInfo carries the extra attributes of a key in a key-value store,
// where the table abstraction maps onto individual keys.
type KeyValueInfo struct {
	KeyType      string `json:"key_type" yaml:"key_type"`
	ValuePreview string `json:"value_preview,omitempty" yaml:"value_preview,omitempty"`
	SizeBytes    *int64 `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	TTLSeconds   *int64 `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// ColumnInfo describes a single table column. Ordinal is the 1-based
// position within the table. MaxLength, Precision and Scale are nil when
// the data type has no such attribute.
type ColumnInfo struct {
	Name            string `json:"name" yaml:"name"`
	Ordinal         int    `json:"ordinal" yaml:"ordinal"`
	DataType        string `json:"data_type" yaml:"data_type"`
	Nullable        bool   `json:"nullable" yaml:"nullable"`
	Default         string `json:"default,omitempty" yaml:"default,omitempty"`
	MaxLength       *int64 `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Precision       *int32 `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale           *int32 `json:"scale,omitempty" yaml:"scale,omitempty"`
	IsPrimaryKey    bool   `json:"is_primary_key,omitempty" yaml:"is_primary_key,omitempty"`
	IsAutoIncrement bool   `json:"is_auto_increment,omitempty" yaml:"is_auto_increment,omitempty"`
	IsUnique        bool   `json:"is_unique,omitempty" yaml:"is_unique,omitempty"`
	Comment         string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// IndexInfo describes an index. Method is the access method (btree, hash,
// gin, ...). Predicate is the WHERE clause of a partial index and Include
// lists non-key columns, both empty on engines without those features.
type IndexInfo struct {
	Name      string   `json:"name" yaml:"name"`
	Columns   []string `json:"columns" yaml:"columns"`
	IsUnique  bool     `json:"is_unique,omitempty" yaml:"is_unique,omitempty"`
	IsPrimary bool     `json:"is_primary,omitempty" yaml:"is_primary,omitempty"`
	Method    string   `json:"method,omitempty" yaml:"method,omitempty"`
	Predicate string   `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	Include   []string `json:"include,omitempty" yaml:"include,omitempty"`
}

// ForeignKeyInfo describes a foreign key constraint on a table.
type ForeignKeyInfo struct {
	Name              string           `json:"name" yaml:"name"`
	Columns           []string         `json:"columns" yaml:"columns"`
	ReferencedSchema  string           `json:"referenced_schema,omitempty" yaml:"referenced_schema,omitempty"`
	ReferencedTable   string           `json:"referenced_table" yaml:"referenced_table"`
	ReferencedColumns []string         `json:"referenced_columns" yaml:"referenced_columns"`
	OnUpdate          ForeignKeyAction `json:"on_update,omitempty" yaml:"on_update,omitempty"`
	OnDelete          ForeignKeyAction `json:"on_delete,omitempty" yaml:"on_delete,omitempty"`
	Deferrable        bool             `json:"deferrable,omitempty" yaml:"deferrable,omitempty"`
	InitiallyDeferred bool             `json:"initially_deferred,omitempty" yaml:"initially_deferred,omitempty"`
}

// PrimaryKeyInfo describes a table's primary key.
type PrimaryKeyInfo struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Columns []string `json:"columns" yaml:"columns"`
}

// ConstraintInfo describes a table constraint other than a foreign key.
// Definition is the engine's textual form and is treated as opaque.
type ConstraintInfo struct {
	Name       string         `json:"name" yaml:"name"`
	Type       ConstraintType `json:"type" yaml:"type"`
	Columns    []string       `json:"columns,omitempty" yaml:"columns,omitempty"`
	Definition string         `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// ViewInfo describes a view or materialized view.
type ViewInfo struct {
	Schema       string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name         string `json:"name" yaml:"name"`
	Materialized bool   `json:"materialized,omitempty" yaml:"materialized,omitempty"`
	Definition   string `json:"definition,omitempty" yaml:"definition,omitempty"`
	Owner        string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Comment      string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// QualifiedName returns "schema.name", or just the name when the view has
// no schema.
func (v ViewInfo) QualifiedName() string {
	if v.Schema != "" {
		return v.Schema + "." + v.Name
	}
	return v.Name
}

// ParameterInfo describes one parameter of a function or procedure.
type ParameterInfo struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	DataType string        `json:"data_type" yaml:"data_type"`
	Mode     ParameterMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Default  string        `json:"default,omitempty" yaml:"default,omitempty"`
	Ordinal  int           `json:"ordinal" yaml:"ordinal"`
}

// FunctionInfo describes a stored function.
type FunctionInfo struct {
	Schema     string          `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name       string          `json:"name" yaml:"name"`
	Language   string          `json:"language,omitempty" yaml:"language,omitempty"`
	ReturnType string          `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Parameters []ParameterInfo `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Definition string          `json:"definition,omitempty" yaml:"definition,omitempty"`
	Owner      string          `json:"owner,omitempty" yaml:"owner,omitempty"`
	Comment    string          `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ProcedureInfo describes a stored procedure.
type ProcedureInfo struct {
	Schema     string          `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name       string          `json:"name" yaml:"name"`
	Language   string          `json:"language,omitempty" yaml:"language,omitempty"`
	Parameters []ParameterInfo `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Definition string          `json:"definition,omitempty" yaml:"definition,omitempty"`
	Owner      string          `json:"owner,omitempty" yaml:"owner,omitempty"`
	Comment    string          `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// TriggerInfo describes a trigger attached to a table or view.
type TriggerInfo struct {
	Schema     string         `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name       string         `json:"name" yaml:"name"`
	Table      string         `json:"table" yaml:"table"`
	Timing     TriggerTiming  `json:"timing" yaml:"timing"`
	Events     []TriggerEvent `json:"events" yaml:"events"`
	ForEach    TriggerForEach `json:"for_each,omitempty" yaml:"for_each,omitempty"`
	Definition string         `json:"definition,omitempty" yaml:"definition,omitempty"`
	Enabled    bool           `json:"enabled" yaml:"enabled"`
	Comment    string         `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// SequenceInfo describes a sequence generator. CurrentValue is nil when
// the sequence has not been read or the engine does not expose it.
type SequenceInfo struct {
	Schema       string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name         string `json:"name" yaml:"name"`
	DataType     string `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	Start        int64  `json:"start" yaml:"start"`
	Min          int64  `json:"min" yaml:"min"`
	Max          int64  `json:"max" yaml:"max"`
	IncrementBy  int64  `json:"increment_by" yaml:"increment_by"`
	Cycle        bool   `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	CurrentValue *int64 `json:"current_value,omitempty" yaml:"current_value,omitempty"`
	Owner        string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Comment      string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// TypeInfo describes a user-defined type. Values holds the labels of an
// enum type in declaration order and is nil for other kinds.
type TypeInfo struct {
	Schema     string   `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name       string   `json:"name" yaml:"name"`
	Kind       TypeKind `json:"kind" yaml:"kind"`
	Values     []string `json:"values,omitempty" yaml:"values,omitempty"`
	Definition string   `json:"definition,omitempty" yaml:"definition,omitempty"`
	Owner      string   `json:"owner,omitempty" yaml:"owner,omitempty"`
	Comment    string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// TableDetails bundles everything known about a single table: the listing
// entry plus columns, keys, indexes, constraints and triggers.
type TableDetails struct {
	Info        TableInfo        `json:"info" yaml:"info"`
	Columns     []ColumnInfo     `json:"columns" yaml:"columns"`
	PrimaryKey  *PrimaryKeyInfo  `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	ForeignKeys []ForeignKeyInfo `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
	Indexes     []IndexInfo      `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Constraints []ConstraintInfo `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Triggers    []TriggerInfo    `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}
