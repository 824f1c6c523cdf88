package report

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/skylinedb/schemadiff/pkg/compare"
	"github.com/skylinedb/schemadiff/pkg/schema"
	"github.com/skylinedb/schemadiff/pkg/typemap"
)

// breakingMark tags lines that describe a change breaking consumers of
// the target schema. The marker placement follows the same policy as
// SchemaDiff.HasBreakingChanges.
const breakingMark = " [breaking]"

// RenderText renders the diff as an indented plain-text report: a
// summary block with per-kind counts, then one section per object kind
// listing added (+), removed (-) and modified (~) entries.
func RenderText(diff *compare.SchemaDiff, opts Options) string {
	if diff.IsEmpty() {
		return "No schema differences found.\n"
	}
	w := &textWriter{opts: opts}
	w.line("=== Comparison Summary ===")
	w.b.WriteString(Summary(diff))
	w.writeTables(diff)
	w.writeViews(diff)
	w.writeFunctions(diff)
	w.writeProcedures(diff)
	w.writeTriggers(diff)
	w.writeSequences(diff)
	w.writeTypes(diff)
	return w.b.String()
}

// Summary returns the count block of the text report: the total number
// of differences, how many of them are breaking, and one line per
// object kind that changed.
func Summary(diff *compare.SchemaDiff) string {
	var b strings.Builder

	total := countNoun(diff.ChangeCount(), "difference") + " found"
	if breaking := breakingCount(diff); breaking > 0 {
		total += fmt.Sprintf(" (%d breaking)", breaking)
	}
	b.WriteString(total + "\n")

	for _, line := range []string{
		kindCounts("table", len(diff.AddedTables), len(diff.RemovedTables), len(diff.ModifiedTables)),
		kindCounts("view", len(diff.AddedViews), len(diff.RemovedViews), len(diff.ModifiedViews)),
		kindCounts("function", len(diff.AddedFunctions), len(diff.RemovedFunctions), len(diff.ModifiedFunctions)),
		kindCounts("procedure", len(diff.AddedProcedures), len(diff.RemovedProcedures), len(diff.ModifiedProcedures)),
		kindCounts("trigger", len(diff.AddedTriggers), len(diff.RemovedTriggers), len(diff.ModifiedTriggers)),
		kindCounts("sequence", len(diff.AddedSequences), len(diff.RemovedSequences), len(diff.ModifiedSequences)),
		kindCounts("type", len(diff.AddedTypes), len(diff.RemovedTypes), len(diff.ModifiedTypes)),
	} {
		if line != "" {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// breakingCount mirrors SchemaDiff.HasBreakingChanges but counts the
// offending entries instead of short-circuiting.
func breakingCount(diff *compare.SchemaDiff) int {
	n := len(diff.RemovedTables) + len(diff.RemovedViews) + len(diff.RemovedFunctions) +
		len(diff.RemovedProcedures) + len(diff.RemovedTriggers) + len(diff.RemovedSequences) +
		len(diff.RemovedTypes)
	for i := range diff.ModifiedTables {
		if !diff.ModifiedTables[i].IsSafe() {
			n++
		}
	}
	return n
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}

func kindCounts(noun string, added, removed, modified int) string {
	var parts []string
	if added > 0 {
		parts = append(parts, countNoun(added, noun)+" added")
	}
	if removed > 0 {
		parts = append(parts, countNoun(removed, noun)+" removed")
	}
	if modified > 0 {
		parts = append(parts, countNoun(modified, noun)+" modified")
	}
	return strings.Join(parts, ", ")
}

type textWriter struct {
	b    strings.Builder
	opts Options
}

func (w *textWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format+"\n", args...)
}

func (w *textWriter) section(name string) {
	w.b.WriteByte('\n')
	w.line("=== %s ===", name)
}

func (w *textWriter) writeTables(diff *compare.SchemaDiff) {
	if len(diff.AddedTables) == 0 && len(diff.RemovedTables) == 0 && len(diff.ModifiedTables) == 0 {
		return
	}
	w.section("Tables")
	for _, t := range diff.AddedTables {
		w.line("+ %s", t.QualifiedName())
	}
	for _, t := range diff.RemovedTables {
		w.line("- %s%s", t.QualifiedName(), breakingMark)
	}
	for i := range diff.ModifiedTables {
		w.writeTableDiff(&diff.ModifiedTables[i])
	}
}

func (w *textWriter) writeTableDiff(td *compare.TableDiff) {
	w.line("~ %s%s", td.QualifiedName(), markIf(!td.IsSafe()))

	if len(td.AddedColumns) > 0 || len(td.RemovedColumns) > 0 || len(td.ModifiedColumns) > 0 {
		w.line("    columns:")
		for _, c := range td.AddedColumns {
			w.line("      + %s", columnSummary(c))
		}
		for _, c := range td.RemovedColumns {
			w.line("      - %s%s", c.Name, breakingMark)
		}
		for i := range td.ModifiedColumns {
			cd := &td.ModifiedColumns[i]
			w.line("      ~ %s: %s%s", cd.ColumnName, w.columnChanges(cd), markIf(!cd.IsSafe()))
		}
	}
	if len(td.AddedIndexes) > 0 || len(td.RemovedIndexes) > 0 || len(td.ModifiedIndexes) > 0 {
		w.line("    indexes:")
		for _, idx := range td.AddedIndexes {
			w.line("      + %s", indexSummary(idx))
		}
		for _, idx := range td.RemovedIndexes {
			w.line("      - %s%s", idx.Name, breakingMark)
		}
		for i := range td.ModifiedIndexes {
			id := &td.ModifiedIndexes[i]
			w.line("      ~ %s: %s", id.IndexName, indexChanges(id))
		}
	}
	if len(td.AddedForeignKeys) > 0 || len(td.RemovedForeignKeys) > 0 || len(td.ModifiedForeignKeys) > 0 {
		w.line("    foreign keys:")
		for _, fk := range td.AddedForeignKeys {
			w.line("      + %s", foreignKeySummary(fk))
		}
		for _, fk := range td.RemovedForeignKeys {
			w.line("      - %s%s", fk.Name, breakingMark)
		}
		for i := range td.ModifiedForeignKeys {
			fd := &td.ModifiedForeignKeys[i]
			w.line("      ~ %s: %s", fd.ForeignKeyName, foreignKeyChanges(fd))
		}
	}
	if len(td.AddedConstraints) > 0 || len(td.RemovedConstraints) > 0 {
		w.line("    constraints:")
		for _, c := range td.AddedConstraints {
			w.line("      + %s (%s)", c.Name, c.Type)
		}
		for _, c := range td.RemovedConstraints {
			w.line("      - %s (%s)%s", c.Name, c.Type, breakingMark)
		}
	}
	if pk := td.PrimaryKeyChange; pk != nil {
		w.line("    primary key %s%s", primaryKeyDetail(pk), markIf(!pk.IsSafe()))
	}
}

func (w *textWriter) writeViews(diff *compare.SchemaDiff) {
	if len(diff.AddedViews) == 0 && len(diff.RemovedViews) == 0 && len(diff.ModifiedViews) == 0 {
		return
	}
	w.section("Views")
	for _, v := range diff.AddedViews {
		w.line("+ %s%s", v.QualifiedName(), materializedNote(v.Materialized))
	}
	for _, v := range diff.RemovedViews {
		w.line("- %s%s%s", v.QualifiedName(), materializedNote(v.Materialized), breakingMark)
	}
	for i := range diff.ModifiedViews {
		vd := &diff.ModifiedViews[i]
		w.line("~ %s: %s", qualified(vd.Schema, vd.ViewName), viewChanges(vd))
	}
}

func (w *textWriter) writeFunctions(diff *compare.SchemaDiff) {
	if len(diff.AddedFunctions) == 0 && len(diff.RemovedFunctions) == 0 && len(diff.ModifiedFunctions) == 0 {
		return
	}
	w.section("Functions")
	for _, f := range diff.AddedFunctions {
		w.line("+ %s", qualified(f.Schema, f.Name))
	}
	for _, f := range diff.RemovedFunctions {
		w.line("- %s%s", qualified(f.Schema, f.Name), breakingMark)
	}
	for i := range diff.ModifiedFunctions {
		fd := &diff.ModifiedFunctions[i]
		w.line("~ %s: %s", qualified(fd.Schema, fd.FunctionName), functionChanges(fd))
	}
}

func (w *textWriter) writeProcedures(diff *compare.SchemaDiff) {
	if len(diff.AddedProcedures) == 0 && len(diff.RemovedProcedures) == 0 && len(diff.ModifiedProcedures) == 0 {
		return
	}
	w.section("Procedures")
	for _, p := range diff.AddedProcedures {
		w.line("+ %s", qualified(p.Schema, p.Name))
	}
	for _, p := range diff.RemovedProcedures {
		w.line("- %s%s", qualified(p.Schema, p.Name), breakingMark)
	}
	for i := range diff.ModifiedProcedures {
		pd := &diff.ModifiedProcedures[i]
		w.line("~ %s: %s", qualified(pd.Schema, pd.ProcedureName), procedureChanges(pd))
	}
}

func (w *textWriter) writeTriggers(diff *compare.SchemaDiff) {
	if len(diff.AddedTriggers) == 0 && len(diff.RemovedTriggers) == 0 && len(diff.ModifiedTriggers) == 0 {
		return
	}
	w.section("Triggers")
	for _, t := range diff.AddedTriggers {
		w.line("+ %s%s", qualified(t.Schema, t.Name), onTable(t.Table))
	}
	for _, t := range diff.RemovedTriggers {
		w.line("- %s%s%s", qualified(t.Schema, t.Name), onTable(t.Table), breakingMark)
	}
	for i := range diff.ModifiedTriggers {
		td := &diff.ModifiedTriggers[i]
		w.line("~ %s%s: %s", qualified(td.Schema, td.TriggerName), onTable(td.Table), triggerChanges(td))
	}
}

func (w *textWriter) writeSequences(diff *compare.SchemaDiff) {
	if len(diff.AddedSequences) == 0 && len(diff.RemovedSequences) == 0 && len(diff.ModifiedSequences) == 0 {
		return
	}
	w.section("Sequences")
	for _, s := range diff.AddedSequences {
		w.line("+ %s", qualified(s.Schema, s.Name))
	}
	for _, s := range diff.RemovedSequences {
		w.line("- %s%s", qualified(s.Schema, s.Name), breakingMark)
	}
	for i := range diff.ModifiedSequences {
		sd := &diff.ModifiedSequences[i]
		w.line("~ %s: %s", qualified(sd.Schema, sd.SequenceName), sequenceChanges(sd))
	}
}

func (w *textWriter) writeTypes(diff *compare.SchemaDiff) {
	if len(diff.AddedTypes) == 0 && len(diff.RemovedTypes) == 0 && len(diff.ModifiedTypes) == 0 {
		return
	}
	w.section("Types")
	for _, t := range diff.AddedTypes {
		w.line("+ %s (%s)", qualified(t.Schema, t.Name), t.Kind)
	}
	for _, t := range diff.RemovedTypes {
		w.line("- %s (%s)%s", qualified(t.Schema, t.Name), t.Kind, breakingMark)
	}
	for i := range diff.ModifiedTypes {
		td := &diff.ModifiedTypes[i]
		w.line("~ %s: %s", qualified(td.Schema, td.TypeName), typeChanges(td))
	}
}

// columnChanges joins the changed attributes of one column. Type changes
// between different dialects are annotated when the target type is just
// the cross-dialect rendering of the source type.
func (w *textWriter) columnChanges(cd *compare.ColumnDiff) string {
	var parts []string
	if c := cd.TypeChange; c != nil {
		detail := fmt.Sprintf("type: source=%s, target=%s", c.Old, c.New)
		if w.typesEquivalent(c.Old, c.New) {
			detail += " (equivalent across dialects)"
		}
		parts = append(parts, detail)
	}
	if c := cd.NullableChange; c != nil {
		parts = append(parts, fmt.Sprintf("nullable: source=%t, target=%t", c.Old, c.New))
	}
	if c := cd.DefaultChange; c != nil {
		parts = append(parts, fmt.Sprintf("default: source=%q, target=%q", c.Old, c.New))
	}
	if c := cd.MaxLengthChange; c != nil {
		parts = append(parts, fmt.Sprintf("max length: source=%s, target=%s", ptrValue(c.Old), ptrValue(c.New)))
	}
	if c := cd.PrecisionChange; c != nil {
		parts = append(parts, fmt.Sprintf("precision: source=%s, target=%s", ptrValue(c.Old), ptrValue(c.New)))
	}
	if c := cd.ScaleChange; c != nil {
		parts = append(parts, fmt.Sprintf("scale: source=%s, target=%s", ptrValue(c.Old), ptrValue(c.New)))
	}
	if c := cd.OrdinalChange; c != nil {
		parts = append(parts, fmt.Sprintf("ordinal: source=%d, target=%d", c.Old, c.New))
	}
	if cd.CommentChange != nil {
		parts = append(parts, "comment changed")
	}
	return strings.Join(parts, "; ")
}

// typesEquivalent reports whether targetType is exactly what sourceType
// maps to across the configured dialect pair, meaning both columns
// declare the same type in different spellings.
func (w *textWriter) typesEquivalent(sourceType, targetType string) bool {
	if w.opts.SourceDialect == "" || w.opts.TargetDialect == "" ||
		w.opts.SourceDialect == w.opts.TargetDialect {
		return false
	}
	mapped, err := typemap.MapType(sourceType, w.opts.SourceDialect, w.opts.TargetDialect)
	if err != nil {
		return false
	}
	return strings.EqualFold(mapped, targetType)
}

func indexChanges(id *compare.IndexDiff) string {
	var parts []string
	if c := id.ColumnsChange; c != nil {
		parts = append(parts, fmt.Sprintf("columns: source=%s, target=%s", nameList(c.Old), nameList(c.New)))
	}
	if c := id.UniqueChange; c != nil {
		parts = append(parts, fmt.Sprintf("unique: source=%t, target=%t", c.Old, c.New))
	}
	if c := id.MethodChange; c != nil {
		parts = append(parts, fmt.Sprintf("method: source=%s, target=%s", c.Old, c.New))
	}
	return strings.Join(parts, "; ")
}

func foreignKeyChanges(fd *compare.ForeignKeyDiff) string {
	var parts []string
	if c := fd.OnUpdateChange; c != nil {
		parts = append(parts, fmt.Sprintf("on update: source=%s, target=%s", c.Old, c.New))
	}
	if c := fd.OnDeleteChange; c != nil {
		parts = append(parts, fmt.Sprintf("on delete: source=%s, target=%s", c.Old, c.New))
	}
	if c := fd.ReferencedTableChange; c != nil {
		parts = append(parts, fmt.Sprintf("referenced table: source=%s, target=%s", c.Old, c.New))
	}
	if c := fd.ColumnsChange; c != nil {
		parts = append(parts, fmt.Sprintf("columns: source=%s, target=%s", nameList(c.Old), nameList(c.New)))
	}
	return strings.Join(parts, "; ")
}

func viewChanges(vd *compare.ViewDiff) string {
	var parts []string
	if vd.DefinitionChange != nil {
		parts = append(parts, "definition changed")
	}
	if c := vd.MaterializedChange; c != nil {
		parts = append(parts, fmt.Sprintf("materialized: source=%t, target=%t", c.Old, c.New))
	}
	return strings.Join(parts, "; ")
}

func functionChanges(fd *compare.FunctionDiff) string {
	var parts []string
	if c := fd.ReturnTypeChange; c != nil {
		parts = append(parts, fmt.Sprintf("return type: source=%s, target=%s", c.Old, c.New))
	}
	if c := fd.LanguageChange; c != nil {
		parts = append(parts, fmt.Sprintf("language: source=%s, target=%s", c.Old, c.New))
	}
	if fd.DefinitionChange != nil {
		parts = append(parts, "definition changed")
	}
	return strings.Join(parts, "; ")
}

func procedureChanges(pd *compare.ProcedureDiff) string {
	var parts []string
	if c := pd.LanguageChange; c != nil {
		parts = append(parts, fmt.Sprintf("language: source=%s, target=%s", c.Old, c.New))
	}
	if pd.DefinitionChange != nil {
		parts = append(parts, "definition changed")
	}
	return strings.Join(parts, "; ")
}

func triggerChanges(td *compare.TriggerDiff) string {
	var parts []string
	if td.DefinitionChange != nil {
		parts = append(parts, "definition changed")
	}
	if c := td.EnabledChange; c != nil {
		parts = append(parts, fmt.Sprintf("enabled: source=%t, target=%t", c.Old, c.New))
	}
	return strings.Join(parts, "; ")
}

func sequenceChanges(sd *compare.SequenceDiff) string {
	var parts []string
	if c := sd.StartChange; c != nil {
		parts = append(parts, fmt.Sprintf("start: source=%d, target=%d", c.Old, c.New))
	}
	if c := sd.IncrementChange; c != nil {
		parts = append(parts, fmt.Sprintf("increment: source=%d, target=%d", c.Old, c.New))
	}
	if c := sd.MinChange; c != nil {
		parts = append(parts, fmt.Sprintf("min: source=%d, target=%d", c.Old, c.New))
	}
	if c := sd.MaxChange; c != nil {
		parts = append(parts, fmt.Sprintf("max: source=%d, target=%d", c.Old, c.New))
	}
	if c := sd.CycleChange; c != nil {
		parts = append(parts, fmt.Sprintf("cycle: source=%t, target=%t", c.Old, c.New))
	}
	return strings.Join(parts, "; ")
}

func typeChanges(td *compare.TypeDiff) string {
	var parts []string
	if c := td.ValuesChange; c != nil {
		parts = append(parts, fmt.Sprintf("values: source=%s, target=%s", nameList(c.Old), nameList(c.New)))
	}
	if td.DefinitionChange != nil {
		parts = append(parts, "definition changed")
	}
	return strings.Join(parts, "; ")
}

// primaryKeyDetail renders the key transition. New holds the source side
// key and Old the target side key, so a modified key prints source=New.
func primaryKeyDetail(pk *compare.PrimaryKeyChange) string {
	switch pk.Kind {
	case compare.PrimaryKeyAdded:
		return "added: " + keyColumns(pk.New)
	case compare.PrimaryKeyRemoved:
		return "removed: " + keyColumns(pk.Old)
	default:
		return fmt.Sprintf("modified: source=%s, target=%s", keyColumns(pk.New), keyColumns(pk.Old))
	}
}

func columnSummary(c schema.ColumnInfo) string {
	s := c.Name + " " + c.DataType
	if !c.Nullable {
		s += " NOT NULL"
	}
	return s
}

func indexSummary(idx schema.IndexInfo) string {
	s := idx.Name + " " + nameList(idx.Columns)
	if idx.IsUnique {
		s += " [unique]"
	}
	return s
}

func foreignKeySummary(fk schema.ForeignKeyInfo) string {
	referenced := fk.ReferencedTable
	if fk.ReferencedSchema != "" {
		referenced = fk.ReferencedSchema + "." + fk.ReferencedTable
	}
	return fmt.Sprintf("%s %s -> %s %s", fk.Name, nameList(fk.Columns), referenced, nameList(fk.ReferencedColumns))
}

func keyColumns(pk *schema.PrimaryKeyInfo) string {
	if pk == nil {
		return "()"
	}
	return nameList(pk.Columns)
}

func nameList(names []string) string {
	return "(" + strings.Join(names, ", ") + ")"
}

func qualified(schemaName, name string) string {
	if schemaName != "" {
		return schemaName + "." + name
	}
	return name
}

func materializedNote(materialized bool) string {
	if materialized {
		return " (materialized)"
	}
	return ""
}

func onTable(table string) string {
	if table == "" {
		return ""
	}
	return " (on " + table + ")"
}

func markIf(breaking bool) string {
	if breaking {
		return breakingMark
	}
	return ""
}

func ptrValue[T int32 | int64](p *T) string {
	if p == nil {
		return "none"
	}
	return fmt.Sprint(*p)
}
