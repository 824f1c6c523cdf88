package compare

import (
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// Change records one field-level difference between a matched pair of
// objects. Old holds the source side value and New holds the target side
// value. A nil *Change means the field did not differ.
type Change[T any] struct {
	Old T `json:"old" yaml:"old"`
	New T `json:"new" yaml:"new"`
}

// SchemaDiff is the complete result of comparing two schema snapshots.
// Added buckets hold objects present only in the source snapshot, removed
// buckets hold objects present only in the target snapshot, and modified
// buckets hold per-object diffs for matched pairs that differ.
type SchemaDiff struct {
	AddedTables    []schema.TableInfo `json:"added_tables,omitempty" yaml:"added_tables,omitempty"`
	RemovedTables  []schema.TableInfo `json:"removed_tables,omitempty" yaml:"removed_tables,omitempty"`
	ModifiedTables []TableDiff        `json:"modified_tables,omitempty" yaml:"modified_tables,omitempty"`

	AddedViews    []schema.ViewInfo `json:"added_views,omitempty" yaml:"added_views,omitempty"`
	RemovedViews  []schema.ViewInfo `json:"removed_views,omitempty" yaml:"removed_views,omitempty"`
	ModifiedViews []ViewDiff        `json:"modified_views,omitempty" yaml:"modified_views,omitempty"`

	AddedFunctions    []schema.FunctionInfo `json:"added_functions,omitempty" yaml:"added_functions,omitempty"`
	RemovedFunctions  []schema.FunctionInfo `json:"removed_functions,omitempty" yaml:"removed_functions,omitempty"`
	ModifiedFunctions []FunctionDiff        `json:"modified_functions,omitempty" yaml:"modified_functions,omitempty"`

	AddedProcedures    []schema.ProcedureInfo `json:"added_procedures,omitempty" yaml:"added_procedures,omitempty"`
	RemovedProcedures  []schema.ProcedureInfo `json:"removed_procedures,omitempty" yaml:"removed_procedures,omitempty"`
	ModifiedProcedures []ProcedureDiff        `json:"modified_procedures,omitempty" yaml:"modified_procedures,omitempty"`

	AddedTriggers    []schema.TriggerInfo `json:"added_triggers,omitempty" yaml:"added_triggers,omitempty"`
	RemovedTriggers  []schema.TriggerInfo `json:"removed_triggers,omitempty" yaml:"removed_triggers,omitempty"`
	ModifiedTriggers []TriggerDiff        `json:"modified_triggers,omitempty" yaml:"modified_triggers,omitempty"`

	AddedSequences    []schema.SequenceInfo `json:"added_sequences,omitempty" yaml:"added_sequences,omitempty"`
	RemovedSequences  []schema.SequenceInfo `json:"removed_sequences,omitempty" yaml:"removed_sequences,omitempty"`
	ModifiedSequences []SequenceDiff        `json:"modified_sequences,omitempty" yaml:"modified_sequences,omitempty"`

	AddedTypes    []schema.TypeInfo `json:"added_types,omitempty" yaml:"added_types,omitempty"`
	RemovedTypes  []schema.TypeInfo `json:"removed_types,omitempty" yaml:"removed_types,omitempty"`
	ModifiedTypes []TypeDiff        `json:"modified_types,omitempty" yaml:"modified_types,omitempty"`
}

// NewSchemaDiff returns an empty diff.
func NewSchemaDiff() *SchemaDiff {
	return &SchemaDiff{}
}

// IsEmpty reports whether the diff contains no changes at all.
func (d *SchemaDiff) IsEmpty() bool {
	return d.ChangeCount() == 0
}

// ChangeCount returns the total number of entries across all buckets.
func (d *SchemaDiff) ChangeCount() int {
	return len(d.AddedTables) + len(d.RemovedTables) + len(d.ModifiedTables) +
		len(d.AddedViews) + len(d.RemovedViews) + len(d.ModifiedViews) +
		len(d.AddedFunctions) + len(d.RemovedFunctions) + len(d.ModifiedFunctions) +
		len(d.AddedProcedures) + len(d.RemovedProcedures) + len(d.ModifiedProcedures) +
		len(d.AddedTriggers) + len(d.RemovedTriggers) + len(d.ModifiedTriggers) +
		len(d.AddedSequences) + len(d.RemovedSequences) + len(d.ModifiedSequences) +
		len(d.AddedTypes) + len(d.RemovedTypes) + len(d.ModifiedTypes)
}

// HasBreakingChanges reports whether applying the difference would risk
// breaking consumers of the target schema: any removed object of any
// kind, or a modified table whose changes are not safe.
func (d *SchemaDiff) HasBreakingChanges() bool {
	if len(d.RemovedTables) > 0 {
		return true
	}
	for i := range d.ModifiedTables {
		if !d.ModifiedTables[i].IsSafe() {
			return true
		}
	}
	return len(d.RemovedViews) > 0 ||
		len(d.RemovedFunctions) > 0 ||
		len(d.RemovedProcedures) > 0 ||
		len(d.RemovedTriggers) > 0 ||
		len(d.RemovedSequences) > 0 ||
		len(d.RemovedTypes) > 0
}

// TableDiff describes every detected difference within a single matched
// table: column, index, foreign key and constraint buckets plus an
// optional primary key change.
type TableDiff struct {
	TableName string `json:"table_name" yaml:"table_name"`
	Schema    string `json:"schema,omitempty" yaml:"schema,omitempty"`

	AddedColumns    []schema.ColumnInfo `json:"added_columns,omitempty" yaml:"added_columns,omitempty"`
	RemovedColumns  []schema.ColumnInfo `json:"removed_columns,omitempty" yaml:"removed_columns,omitempty"`
	ModifiedColumns []ColumnDiff        `json:"modified_columns,omitempty" yaml:"modified_columns,omitempty"`

	AddedIndexes    []schema.IndexInfo `json:"added_indexes,omitempty" yaml:"added_indexes,omitempty"`
	RemovedIndexes  []schema.IndexInfo `json:"removed_indexes,omitempty" yaml:"removed_indexes,omitempty"`
	ModifiedIndexes []IndexDiff        `json:"modified_indexes,omitempty" yaml:"modified_indexes,omitempty"`

	AddedForeignKeys    []schema.ForeignKeyInfo `json:"added_foreign_keys,omitempty" yaml:"added_foreign_keys,omitempty"`
	RemovedForeignKeys  []schema.ForeignKeyInfo `json:"removed_foreign_keys,omitempty" yaml:"removed_foreign_keys,omitempty"`
	ModifiedForeignKeys []ForeignKeyDiff        `json:"modified_foreign_keys,omitempty" yaml:"modified_foreign_keys,omitempty"`

	AddedConstraints   []schema.ConstraintInfo `json:"added_constraints,omitempty" yaml:"added_constraints,omitempty"`
	RemovedConstraints []schema.ConstraintInfo `json:"removed_constraints,omitempty" yaml:"removed_constraints,omitempty"`

	PrimaryKeyChange *PrimaryKeyChange `json:"primary_key_change,omitempty" yaml:"primary_key_change,omitempty"`
}

// NewTableDiff returns an empty diff for the named table.
func NewTableDiff(tableName, schemaName string) *TableDiff {
	return &TableDiff{TableName: tableName, Schema: schemaName}
}

// QualifiedName returns "schema.table", or just the table name when the
// table has no schema.
func (d *TableDiff) QualifiedName() string {
	if d.Schema != "" {
		return d.Schema + "." + d.TableName
	}
	return d.TableName
}

// IsEmpty reports whether no difference was found in any bucket.
func (d *TableDiff) IsEmpty() bool {
	return len(d.AddedColumns) == 0 && len(d.RemovedColumns) == 0 && len(d.ModifiedColumns) == 0 &&
		len(d.AddedIndexes) == 0 && len(d.RemovedIndexes) == 0 && len(d.ModifiedIndexes) == 0 &&
		len(d.AddedForeignKeys) == 0 && len(d.RemovedForeignKeys) == 0 && len(d.ModifiedForeignKeys) == 0 &&
		len(d.AddedConstraints) == 0 && len(d.RemovedConstraints) == 0 &&
		d.PrimaryKeyChange == nil
}

// IsSafe reports whether every change in the table is backward
// compatible: nothing removed, no column made non-nullable, and no
// primary key removed or altered.
func (d *TableDiff) IsSafe() bool {
	if len(d.RemovedColumns) > 0 || len(d.RemovedIndexes) > 0 ||
		len(d.RemovedForeignKeys) > 0 || len(d.RemovedConstraints) > 0 {
		return false
	}
	for i := range d.ModifiedColumns {
		if !d.ModifiedColumns[i].IsSafe() {
			return false
		}
	}
	if d.PrimaryKeyChange != nil && !d.PrimaryKeyChange.IsSafe() {
		return false
	}
	return true
}

// ColumnDiff captures the changed attributes of one matched column. Only
// fields that differ are set.
type ColumnDiff struct {
	ColumnName      string          `json:"column_name" yaml:"column_name"`
	TypeChange      *Change[string] `json:"type_change,omitempty" yaml:"type_change,omitempty"`
	NullableChange  *Change[bool]   `json:"nullable_change,omitempty" yaml:"nullable_change,omitempty"`
	DefaultChange   *Change[string] `json:"default_change,omitempty" yaml:"default_change,omitempty"`
	MaxLengthChange *Change[*int64] `json:"max_length_change,omitempty" yaml:"max_length_change,omitempty"`
	PrecisionChange *Change[*int32] `json:"precision_change,omitempty" yaml:"precision_change,omitempty"`
	ScaleChange     *Change[*int32] `json:"scale_change,omitempty" yaml:"scale_change,omitempty"`
	OrdinalChange   *Change[int]    `json:"ordinal_change,omitempty" yaml:"ordinal_change,omitempty"`
	CommentChange   *Change[string] `json:"comment_change,omitempty" yaml:"comment_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *ColumnDiff) IsEmpty() bool {
	return d.TypeChange == nil && d.NullableChange == nil && d.DefaultChange == nil &&
		d.MaxLengthChange == nil && d.PrecisionChange == nil && d.ScaleChange == nil &&
		d.OrdinalChange == nil && d.CommentChange == nil
}

// IsSafe reports whether the column change is backward compatible. The
// one unsafe change is tightening a nullable column to NOT NULL, which
// can reject existing writers and existing NULL rows.
func (d *ColumnDiff) IsSafe() bool {
	if d.NullableChange != nil && d.NullableChange.Old && !d.NullableChange.New {
		return false
	}
	return true
}

// IndexDiff captures the changed attributes of one matched index.
type IndexDiff struct {
	IndexName     string            `json:"index_name" yaml:"index_name"`
	ColumnsChange *Change[[]string] `json:"columns_change,omitempty" yaml:"columns_change,omitempty"`
	UniqueChange  *Change[bool]     `json:"unique_change,omitempty" yaml:"unique_change,omitempty"`
	MethodChange  *Change[string]   `json:"method_change,omitempty" yaml:"method_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *IndexDiff) IsEmpty() bool {
	return d.ColumnsChange == nil && d.UniqueChange == nil && d.MethodChange == nil
}

// ForeignKeyDiff captures the changed attributes of one matched foreign key.
type ForeignKeyDiff struct {
	ForeignKeyName        string                           `json:"foreign_key_name" yaml:"foreign_key_name"`
	OnUpdateChange        *Change[schema.ForeignKeyAction] `json:"on_update_change,omitempty" yaml:"on_update_change,omitempty"`
	OnDeleteChange        *Change[schema.ForeignKeyAction] `json:"on_delete_change,omitempty" yaml:"on_delete_change,omitempty"`
	ReferencedTableChange *Change[string]                  `json:"referenced_table_change,omitempty" yaml:"referenced_table_change,omitempty"`
	ColumnsChange         *Change[[]string]                `json:"columns_change,omitempty" yaml:"columns_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *ForeignKeyDiff) IsEmpty() bool {
	return d.OnUpdateChange == nil && d.OnDeleteChange == nil &&
		d.ReferencedTableChange == nil && d.ColumnsChange == nil
}

// PrimaryKeyChangeKind discriminates the three primary key transitions.
type PrimaryKeyChangeKind string

const (
	PrimaryKeyAdded    PrimaryKeyChangeKind = "added"
	PrimaryKeyRemoved  PrimaryKeyChangeKind = "removed"
	PrimaryKeyModified PrimaryKeyChangeKind = "modified"
)

// PrimaryKeyChange describes a primary key transition between the two
// sides. New is the source side key (set for added and modified), Old is
// the target side key (set for removed and modified).
type PrimaryKeyChange struct {
	Kind PrimaryKeyChangeKind   `json:"kind" yaml:"kind"`
	Old  *schema.PrimaryKeyInfo `json:"old,omitempty" yaml:"old,omitempty"`
	New  *schema.PrimaryKeyInfo `json:"new,omitempty" yaml:"new,omitempty"`
}

// IsSafe reports whether the transition is backward compatible. Adding a
// primary key is safe; removing or altering one is not.
func (p *PrimaryKeyChange) IsSafe() bool {
	return p.Kind == PrimaryKeyAdded
}

// ViewDiff captures the changed attributes of one matched view.
type ViewDiff struct {
	ViewName           string          `json:"view_name" yaml:"view_name"`
	Schema             string          `json:"schema,omitempty" yaml:"schema,omitempty"`
	DefinitionChange   *Change[string] `json:"definition_change,omitempty" yaml:"definition_change,omitempty"`
	MaterializedChange *Change[bool]   `json:"materialized_change,omitempty" yaml:"materialized_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *ViewDiff) IsEmpty() bool {
	return d.DefinitionChange == nil && d.MaterializedChange == nil
}

// FunctionDiff captures the changed attributes of one matched function.
type FunctionDiff struct {
	FunctionName     string          `json:"function_name" yaml:"function_name"`
	Schema           string          `json:"schema,omitempty" yaml:"schema,omitempty"`
	ReturnTypeChange *Change[string] `json:"return_type_change,omitempty" yaml:"return_type_change,omitempty"`
	LanguageChange   *Change[string] `json:"language_change,omitempty" yaml:"language_change,omitempty"`
	DefinitionChange *Change[string] `json:"definition_change,omitempty" yaml:"definition_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *FunctionDiff) IsEmpty() bool {
	return d.ReturnTypeChange == nil && d.LanguageChange == nil && d.DefinitionChange == nil
}

// ProcedureDiff captures the changed attributes of one matched procedure.
type ProcedureDiff struct {
	ProcedureName    string          `json:"procedure_name" yaml:"procedure_name"`
	Schema           string          `json:"schema,omitempty" yaml:"schema,omitempty"`
	LanguageChange   *Change[string] `json:"language_change,omitempty" yaml:"language_change,omitempty"`
	DefinitionChange *Change[string] `json:"definition_change,omitempty" yaml:"definition_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *ProcedureDiff) IsEmpty() bool {
	return d.LanguageChange == nil && d.DefinitionChange == nil
}

// TriggerDiff captures the changed attributes of one matched trigger.
type TriggerDiff struct {
	TriggerName      string          `json:"trigger_name" yaml:"trigger_name"`
	Table            string          `json:"table,omitempty" yaml:"table,omitempty"`
	Schema           string          `json:"schema,omitempty" yaml:"schema,omitempty"`
	DefinitionChange *Change[string] `json:"definition_change,omitempty" yaml:"definition_change,omitempty"`
	EnabledChange    *Change[bool]   `json:"enabled_change,omitempty" yaml:"enabled_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *TriggerDiff) IsEmpty() bool {
	return d.DefinitionChange == nil && d.EnabledChange == nil
}

// SequenceDiff captures the changed attributes of one matched sequence.
type SequenceDiff struct {
	SequenceName    string         `json:"sequence_name" yaml:"sequence_name"`
	Schema          string         `json:"schema,omitempty" yaml:"schema,omitempty"`
	StartChange     *Change[int64] `json:"start_change,omitempty" yaml:"start_change,omitempty"`
	IncrementChange *Change[int64] `json:"increment_change,omitempty" yaml:"increment_change,omitempty"`
	MinChange       *Change[int64] `json:"min_change,omitempty" yaml:"min_change,omitempty"`
	MaxChange       *Change[int64] `json:"max_change,omitempty" yaml:"max_change,omitempty"`
	CycleChange     *Change[bool]  `json:"cycle_change,omitempty" yaml:"cycle_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *SequenceDiff) IsEmpty() bool {
	return d.StartChange == nil && d.IncrementChange == nil && d.MinChange == nil &&
		d.MaxChange == nil && d.CycleChange == nil
}

// TypeDiff captures the changed attributes of one matched user-defined type.
type TypeDiff struct {
	TypeName         string            `json:"type_name" yaml:"type_name"`
	Schema           string            `json:"schema,omitempty" yaml:"schema,omitempty"`
	ValuesChange     *Change[[]string] `json:"values_change,omitempty" yaml:"values_change,omitempty"`
	DefinitionChange *Change[string]   `json:"definition_change,omitempty" yaml:"definition_change,omitempty"`
}

// IsEmpty reports whether no attribute differed.
func (d *TypeDiff) IsEmpty() bool {
	return d.ValuesChange == nil && d.DefinitionChange == nil
}
