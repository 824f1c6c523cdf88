package schema

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a complete, immutable picture of one database namespace at a
// point in time. TableDetails is keyed by the qualified table name as
// returned by TableInfo.QualifiedName.
//
// ID is a UUID kept as a string: snapshots round-trip through YAML, which
// decodes scalars into strings, not uuid.UUID's byte array.
type Snapshot struct {
	ID         string                  `json:"id" yaml:"id"`
	Dialect    string                  `json:"dialect" yaml:"dialect"`
	Database   string                  `json:"database,omitempty" yaml:"database,omitempty"`
	SchemaName string                  `json:"schema,omitempty" yaml:"schema,omitempty"`
	CapturedAt time.Time               `json:"captured_at" yaml:"captured_at"`
	Tables     []TableInfo             `json:"tables,omitempty" yaml:"tables,omitempty"`
	Views      []ViewInfo              `json:"views,omitempty" yaml:"views,omitempty"`
	Functions  []FunctionInfo          `json:"functions,omitempty" yaml:"functions,omitempty"`
	Procedures []ProcedureInfo         `json:"procedures,omitempty" yaml:"procedures,omitempty"`
	Triggers   []TriggerInfo           `json:"triggers,omitempty" yaml:"triggers,omitempty"`
	Sequences  []SequenceInfo          `json:"sequences,omitempty" yaml:"sequences,omitempty"`
	Types      []TypeInfo              `json:"types,omitempty" yaml:"types,omitempty"`
	Details    map[string]TableDetails `json:"table_details,omitempty" yaml:"table_details,omitempty"`
}

// NewSnapshot creates an empty snapshot for the given dialect and database.
func NewSnapshot(dialect, database string) *Snapshot {
	return &Snapshot{
		ID:         uuid.NewString(),
		Dialect:    dialect,
		Database:   database,
		CapturedAt: time.Now().UTC(),
		Details:    make(map[string]TableDetails),
	}
}

// DetailsFor looks up table details by qualified name.
func (s *Snapshot) DetailsFor(qualifiedName string) (TableDetails, bool) {
	d, ok := s.Details[qualifiedName]
	return d, ok
}

// ObjectCount returns the number of schema objects in the snapshot.
func (s *Snapshot) ObjectCount() int {
	return len(s.Tables) + len(s.Views) + len(s.Functions) + len(s.Procedures) +
		len(s.Triggers) + len(s.Sequences) + len(s.Types)
}
