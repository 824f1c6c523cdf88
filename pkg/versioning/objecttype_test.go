package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseObjectType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ObjectType
	}{
		{name: "procedure", input: "procedure", expected: ObjectTypeProcedure},
		{name: "stored procedure synonym", input: "stored_procedure", expected: ObjectTypeProcedure},
		{name: "function uppercase", input: "FUNCTION", expected: ObjectTypeFunction},
		{name: "view", input: "view", expected: ObjectTypeView},
		{name: "matview synonym", input: "matview", expected: ObjectTypeMaterializedView},
		{name: "trigger", input: "trigger", expected: ObjectTypeTrigger},
		{name: "check constraint synonym", input: "check", expected: ObjectTypeConstraint},
		{name: "domain synonym", input: "domain", expected: ObjectTypeType},
		{name: "sequence", input: "sequence", expected: ObjectTypeSequence},
		{name: "scheduled job synonym", input: "scheduled_job", expected: ObjectTypeEvent},
		{name: "rls policy synonym", input: "rls_policy", expected: ObjectTypePolicy},
		{name: "unknown falls back to other", input: "tablespace", expected: ObjectTypeOther},
		{name: "surrounding whitespace", input: "  view ", expected: ObjectTypeView},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseObjectType(tt.input))
		})
	}
}

func TestObjectTypeRoundtrip(t *testing.T) {
	types := []ObjectType{
		ObjectTypeProcedure, ObjectTypeFunction, ObjectTypeView,
		ObjectTypeMaterializedView, ObjectTypeTrigger, ObjectTypeConstraint,
		ObjectTypeIndex, ObjectTypeType, ObjectTypeSequence,
		ObjectTypeEvent, ObjectTypePolicy, ObjectTypeOther,
	}

	for _, objType := range types {
		assert.Equal(t, objType, ParseObjectType(string(objType)), "failed roundtrip for %s", objType)
	}
}

func TestObjectTypeDisplayName(t *testing.T) {
	assert.Equal(t, "Function", ObjectTypeFunction.DisplayName())
	assert.Equal(t, "Materialized View", ObjectTypeMaterializedView.DisplayName())
	assert.Equal(t, "Other", ObjectType("").DisplayName())
}

func TestObjectTypeIsExecutable(t *testing.T) {
	assert.True(t, ObjectTypeProcedure.IsExecutable())
	assert.True(t, ObjectTypeTrigger.IsExecutable())
	assert.False(t, ObjectTypeView.IsExecutable())
	assert.False(t, ObjectTypeSequence.IsExecutable())
}
