// Package compare implements structural comparison of database schema
// snapshots. A SchemaComparator takes two immutable snapshots, a source
// and a target, and produces a SchemaDiff that classifies every object
// as added (source only), removed (target only) or modified (present on
// both sides with differing attributes). Comparison is pure: it performs
// no I/O and never mutates its inputs.
package compare

import (
	"slices"
	"strings"

	"github.com/skylinedb/schemadiff/pkg/schema"
)

// SchemaComparator compares schema snapshots under a fixed configuration.
// The zero value is not useful; use NewSchemaComparator or
// NewSchemaComparatorWithConfig.
type SchemaComparator struct {
	config CompareConfig
}

// NewSchemaComparator returns a comparator with the default configuration.
func NewSchemaComparator() *SchemaComparator {
	return &SchemaComparator{config: NewCompareConfig()}
}

// NewSchemaComparatorWithConfig returns a comparator using cfg.
func NewSchemaComparatorWithConfig(cfg CompareConfig) *SchemaComparator {
	return &SchemaComparator{config: cfg}
}

// Config returns the comparator's configuration.
func (c *SchemaComparator) Config() CompareConfig {
	return c.config
}

// normalizeName folds a name for matching. Case sensitive mode returns
// the name unchanged.
func (c *SchemaComparator) normalizeName(name string) string {
	if c.config.CaseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// foldEqual compares two name-like values under the configured case rule.
func (c *SchemaComparator) foldEqual(a, b string) bool {
	return c.normalizeName(a) == c.normalizeName(b)
}

// CompareSnapshots compares two complete snapshots and returns the merged
// diff across every object kind.
func (c *SchemaComparator) CompareSnapshots(source, target *schema.Snapshot) *SchemaDiff {
	return c.MergeDiffs(
		c.CompareTables(source.Tables, target.Tables, source.Details, target.Details),
		c.CompareViews(source.Views, target.Views),
		c.CompareFunctions(source.Functions, target.Functions),
		c.CompareProcedures(source.Procedures, target.Procedures),
		c.CompareTriggers(source.Triggers, target.Triggers),
		c.CompareSequences(source.Sequences, target.Sequences),
		c.CompareTypes(source.Types, target.Types),
	)
}

// CompareTables matches tables by qualified name and diffs matched pairs
// through their details. The details maps are keyed by each side's own
// qualified table name; a matched pair whose details are missing on
// either side is skipped rather than guessed at.
func (c *SchemaComparator) CompareTables(source, target []schema.TableInfo, sourceDetails, targetDetails map[string]schema.TableDetails) *SchemaDiff {
	diff := NewSchemaDiff()
	diff.AddedTables, diff.RemovedTables, diff.ModifiedTables = keyedDiff(source, target,
		func(t schema.TableInfo) string { return c.normalizeName(t.QualifiedName()) },
		func(st, tt schema.TableInfo) (TableDiff, bool) {
			sd, ok := sourceDetails[st.QualifiedName()]
			if !ok {
				return TableDiff{}, false
			}
			td, ok := targetDetails[tt.QualifiedName()]
			if !ok {
				return TableDiff{}, false
			}
			tableDiff := c.CompareTableDetails(&sd, &td)
			if tableDiff == nil {
				return TableDiff{}, false
			}
			return *tableDiff, true
		})
	return diff
}

// CompareTableDetails diffs two matched tables attribute by attribute.
// Columns and the primary key are always compared; indexes, foreign keys
// and constraints only when their category is enabled. Returns nil when
// nothing differs.
func (c *SchemaComparator) CompareTableDetails(source, target *schema.TableDetails) *TableDiff {
	diff := NewTableDiff(source.Info.Name, source.Info.Schema)

	diff.AddedColumns, diff.RemovedColumns, diff.ModifiedColumns = keyedDiff(source.Columns, target.Columns,
		func(col schema.ColumnInfo) string { return c.normalizeName(col.Name) },
		c.diffColumn)

	if c.config.CompareIndexes {
		diff.AddedIndexes, diff.RemovedIndexes, diff.ModifiedIndexes = keyedDiff(source.Indexes, target.Indexes,
			func(idx schema.IndexInfo) string { return c.normalizeName(idx.Name) },
			c.diffIndex)
	}

	if c.config.CompareForeignKeys {
		diff.AddedForeignKeys, diff.RemovedForeignKeys, diff.ModifiedForeignKeys = keyedDiff(source.ForeignKeys, target.ForeignKeys,
			func(fk schema.ForeignKeyInfo) string { return c.normalizeName(fk.Name) },
			c.diffForeignKey)
	}

	if c.config.CompareConstraints {
		diff.AddedConstraints, diff.RemovedConstraints = keyedPresence(source.Constraints, target.Constraints,
			func(con schema.ConstraintInfo) string { return c.normalizeName(con.Name) })
	}

	diff.PrimaryKeyChange = c.comparePrimaryKeys(source.PrimaryKey, target.PrimaryKey)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func (c *SchemaComparator) diffColumn(source, target schema.ColumnInfo) (ColumnDiff, bool) {
	d := ColumnDiff{ColumnName: source.Name}
	if !c.foldEqual(source.DataType, target.DataType) {
		d.TypeChange = &Change[string]{Old: source.DataType, New: target.DataType}
	}
	d.NullableChange = changed(source.Nullable, target.Nullable)
	d.DefaultChange = changed(source.Default, target.Default)
	d.MaxLengthChange = changedPtr(source.MaxLength, target.MaxLength)
	d.PrecisionChange = changedPtr(source.Precision, target.Precision)
	d.ScaleChange = changedPtr(source.Scale, target.Scale)
	if !c.config.IgnoreColumnOrder {
		d.OrdinalChange = changed(source.Ordinal, target.Ordinal)
	}
	if c.config.CompareComments {
		d.CommentChange = changed(source.Comment, target.Comment)
	}
	return d, !d.IsEmpty()
}

func (c *SchemaComparator) diffIndex(source, target schema.IndexInfo) (IndexDiff, bool) {
	d := IndexDiff{IndexName: source.Name}
	d.ColumnsChange = changedStrings(source.Columns, target.Columns)
	d.UniqueChange = changed(source.IsUnique, target.IsUnique)
	if !c.foldEqual(source.Method, target.Method) {
		d.MethodChange = &Change[string]{Old: source.Method, New: target.Method}
	}
	return d, !d.IsEmpty()
}

func (c *SchemaComparator) diffForeignKey(source, target schema.ForeignKeyInfo) (ForeignKeyDiff, bool) {
	d := ForeignKeyDiff{ForeignKeyName: source.Name}
	d.OnUpdateChange = changed(source.OnUpdate, target.OnUpdate)
	d.OnDeleteChange = changed(source.OnDelete, target.OnDelete)
	if !c.foldEqual(source.ReferencedTable, target.ReferencedTable) {
		d.ReferencedTableChange = &Change[string]{Old: source.ReferencedTable, New: target.ReferencedTable}
	}
	d.ColumnsChange = changedStrings(source.Columns, target.Columns)
	return d, !d.IsEmpty()
}

// comparePrimaryKeys classifies the primary key transition for a matched
// table. Key columns are compared positionally and byte for byte.
func (c *SchemaComparator) comparePrimaryKeys(source, target *schema.PrimaryKeyInfo) *PrimaryKeyChange {
	switch {
	case source != nil && target == nil:
		return &PrimaryKeyChange{Kind: PrimaryKeyAdded, New: clonePtr(source)}
	case source == nil && target != nil:
		return &PrimaryKeyChange{Kind: PrimaryKeyRemoved, Old: clonePtr(target)}
	case source != nil && target != nil:
		if !slices.Equal(source.Columns, target.Columns) {
			return &PrimaryKeyChange{Kind: PrimaryKeyModified, Old: clonePtr(target), New: clonePtr(source)}
		}
	}
	return nil
}

// CompareViews matches views by name and reports definition and
// materialization changes.
func (c *SchemaComparator) CompareViews(source, target []schema.ViewInfo) *SchemaDiff {
	diff := NewSchemaDiff()
	diff.AddedViews, diff.RemovedViews, diff.ModifiedViews = keyedDiff(source, target,
		func(v schema.ViewInfo) string { return c.normalizeName(v.Name) },
		func(sv, tv schema.ViewInfo) (ViewDiff, bool) {
			d := ViewDiff{ViewName: sv.Name, Schema: sv.Schema}
			d.DefinitionChange = changed(sv.Definition, tv.Definition)
			d.MaterializedChange = changed(sv.Materialized, tv.Materialized)
			return d, !d.IsEmpty()
		})
	return diff
}

// CompareFunctions matches functions by name and reports return type,
// language and definition changes.
func (c *SchemaComparator) CompareFunctions(source, target []schema.FunctionInfo) *SchemaDiff {
	diff := NewSchemaDiff()
	diff.AddedFunctions, diff.RemovedFunctions, diff.ModifiedFunctions = keyedDiff(source, target,
		func(f schema.FunctionInfo) string { return c.normalizeName(f.Name) },
		func(sf, tf schema.FunctionInfo) (FunctionDiff, bool) {
			d := FunctionDiff{FunctionName: sf.Name, Schema: sf.Schema}
			if !c.foldEqual(sf.ReturnType, tf.ReturnType) {
				d.ReturnTypeChange = &Change[string]{Old: sf.ReturnType, New: tf.ReturnType}
			}
			if !c.foldEqual(sf.Language, tf.Language) {
				d.LanguageChange = &Change[string]{Old: sf.Language, New: tf.Language}
			}
			d.DefinitionChange = changed(sf.Definition, tf.Definition)
			return d, !d.IsEmpty()
		})
	return diff
}

// CompareProcedures matches procedures by name and reports language and
// definition changes.
func (c *SchemaComparator) CompareProcedures(source, target []schema.ProcedureInfo) *SchemaDiff {
	diff := NewSchemaDiff()
	diff.AddedProcedures, diff.RemovedProcedures, diff.ModifiedProcedures = keyedDiff(source, target,
		func(p schema.ProcedureInfo) string { return c.normalizeName(p.Name) },
		func(sp, tp schema.ProcedureInfo) (ProcedureDiff, bool) {
			d := ProcedureDiff{ProcedureName: sp.Name, Schema: sp.Schema}
			if !c.foldEqual(sp.Language, tp.Language) {
				d.LanguageChange = &Change[string]{Old: sp.Language, New: tp.Language}
			}
			d.DefinitionChange = changed(sp.Definition, tp.Definition)
			return d, !d.IsEmpty()
		})
	return diff
}

// CompareTriggers matches triggers by name and reports definition and
// enabled state changes. When the trigger category is disabled the result
// is empty regardless of input.
func (c *SchemaComparator) CompareTriggers(source, target []schema.TriggerInfo) *SchemaDiff {
	diff := NewSchemaDiff()
	if !c.config.CompareTriggers {
		return diff
	}
	diff.AddedTriggers, diff.RemovedTriggers, diff.ModifiedTriggers = keyedDiff(source, target,
		func(t schema.TriggerInfo) string { return c.normalizeName(t.Name) },
		func(st, tt schema.TriggerInfo) (TriggerDiff, bool) {
			d := TriggerDiff{TriggerName: st.Name, Table: st.Table, Schema: st.Schema}
			d.DefinitionChange = changed(st.Definition, tt.Definition)
			d.EnabledChange = changed(st.Enabled, tt.Enabled)
			return d, !d.IsEmpty()
		})
	return diff
}

// CompareSequences matches sequences by name and reports bound, step and
// cycle changes.
func (c *SchemaComparator) CompareSequences(source, target []schema.SequenceInfo) *SchemaDiff {
	diff := NewSchemaDiff()
	diff.AddedSequences, diff.RemovedSequences, diff.ModifiedSequences = keyedDiff(source, target,
		func(s schema.SequenceInfo) string { return c.normalizeName(s.Name) },
		func(ss, ts schema.SequenceInfo) (SequenceDiff, bool) {
			d := SequenceDiff{SequenceName: ss.Name, Schema: ss.Schema}
			d.StartChange = changed(ss.Start, ts.Start)
			d.IncrementChange = changed(ss.IncrementBy, ts.IncrementBy)
			d.MinChange = changed(ss.Min, ts.Min)
			d.MaxChange = changed(ss.Max, ts.Max)
			d.CycleChange = changed(ss.Cycle, ts.Cycle)
			return d, !d.IsEmpty()
		})
	return diff
}

// CompareTypes matches user-defined types by name and reports enum value
// and definition changes.
func (c *SchemaComparator) CompareTypes(source, target []schema.TypeInfo) *SchemaDiff {
	diff := NewSchemaDiff()
	diff.AddedTypes, diff.RemovedTypes, diff.ModifiedTypes = keyedDiff(source, target,
		func(t schema.TypeInfo) string { return c.normalizeName(t.Name) },
		func(st, tt schema.TypeInfo) (TypeDiff, bool) {
			d := TypeDiff{TypeName: st.Name, Schema: st.Schema}
			d.ValuesChange = changedStrings(st.Values, tt.Values)
			d.DefinitionChange = changed(st.Definition, tt.Definition)
			return d, !d.IsEmpty()
		})
	return diff
}

// MergeDiffs concatenates any number of diffs into one. Entries are
// appended in argument order and never deduplicated; callers are expected
// to merge diffs produced from disjoint object sets.
func (c *SchemaComparator) MergeDiffs(diffs ...*SchemaDiff) *SchemaDiff {
	merged := NewSchemaDiff()
	for _, d := range diffs {
		if d == nil {
			continue
		}
		merged.AddedTables = append(merged.AddedTables, d.AddedTables...)
		merged.RemovedTables = append(merged.RemovedTables, d.RemovedTables...)
		merged.ModifiedTables = append(merged.ModifiedTables, d.ModifiedTables...)
		merged.AddedViews = append(merged.AddedViews, d.AddedViews...)
		merged.RemovedViews = append(merged.RemovedViews, d.RemovedViews...)
		merged.ModifiedViews = append(merged.ModifiedViews, d.ModifiedViews...)
		merged.AddedFunctions = append(merged.AddedFunctions, d.AddedFunctions...)
		merged.RemovedFunctions = append(merged.RemovedFunctions, d.RemovedFunctions...)
		merged.ModifiedFunctions = append(merged.ModifiedFunctions, d.ModifiedFunctions...)
		merged.AddedProcedures = append(merged.AddedProcedures, d.AddedProcedures...)
		merged.RemovedProcedures = append(merged.RemovedProcedures, d.RemovedProcedures...)
		merged.ModifiedProcedures = append(merged.ModifiedProcedures, d.ModifiedProcedures...)
		merged.AddedTriggers = append(merged.AddedTriggers, d.AddedTriggers...)
		merged.RemovedTriggers = append(merged.RemovedTriggers, d.RemovedTriggers...)
		merged.ModifiedTriggers = append(merged.ModifiedTriggers, d.ModifiedTriggers...)
		merged.AddedSequences = append(merged.AddedSequences, d.AddedSequences...)
		merged.RemovedSequences = append(merged.RemovedSequences, d.RemovedSequences...)
		merged.ModifiedSequences = append(merged.ModifiedSequences, d.ModifiedSequences...)
		merged.AddedTypes = append(merged.AddedTypes, d.AddedTypes...)
		merged.RemovedTypes = append(merged.RemovedTypes, d.RemovedTypes...)
		merged.ModifiedTypes = append(merged.ModifiedTypes, d.ModifiedTypes...)
	}
	return merged
}

// changed returns the field change for a comparable pair, or nil when the
// values are equal.
func changed[T comparable](source, target T) *Change[T] {
	if source == target {
		return nil
	}
	return &Change[T]{Old: source, New: target}
}

// changedPtr compares two optional values. Two nils are equal; a nil and
// a non-nil differ; two non-nils compare by value.
func changedPtr[T comparable](source, target *T) *Change[*T] {
	if source == nil && target == nil {
		return nil
	}
	if source != nil && target != nil && *source == *target {
		return nil
	}
	return &Change[*T]{Old: clonePtr(source), New: clonePtr(target)}
}

// changedStrings compares two string slices positionally.
func changedStrings(source, target []string) *Change[[]string] {
	if slices.Equal(source, target) {
		return nil
	}
	return &Change[[]string]{Old: slices.Clone(source), New: slices.Clone(target)}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
