// Package versioning keeps a local history of database object
// definitions (views, functions, procedures, triggers and the rest) in
// a SQLite file, git-style: each commit records the object's source
// text, a message and a parent link, and versions can be tagged,
// diffed and walked back through their parent chain.
package versioning

import "strings"

// ObjectType classifies the database object a version belongs to.
type ObjectType string

const (
	ObjectTypeProcedure        ObjectType = "procedure"
	ObjectTypeFunction         ObjectType = "function"
	ObjectTypeView             ObjectType = "view"
	ObjectTypeMaterializedView ObjectType = "materialized_view"
	ObjectTypeTrigger          ObjectType = "trigger"
	ObjectTypeConstraint       ObjectType = "constraint"
	ObjectTypeIndex            ObjectType = "index"
	ObjectTypeType             ObjectType = "type"
	ObjectTypeSequence         ObjectType = "sequence"
	ObjectTypeEvent            ObjectType = "event"
	ObjectTypePolicy           ObjectType = "policy"
	ObjectTypeOther            ObjectType = "other"
)

// ParseObjectType maps a stored or user-supplied name onto an
// ObjectType, accepting the synonyms different engines use. Unknown
// names fall back to ObjectTypeOther.
func ParseObjectType(s string) ObjectType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "procedure", "stored_procedure":
		return ObjectTypeProcedure
	case "function":
		return ObjectTypeFunction
	case "view":
		return ObjectTypeView
	case "materialized_view", "matview":
		return ObjectTypeMaterializedView
	case "trigger":
		return ObjectTypeTrigger
	case "constraint", "check", "foreign_key", "primary_key", "unique":
		return ObjectTypeConstraint
	case "index":
		return ObjectTypeIndex
	case "type", "domain", "enum":
		return ObjectTypeType
	case "sequence":
		return ObjectTypeSequence
	case "event", "job", "scheduled_job":
		return ObjectTypeEvent
	case "policy", "rls_policy":
		return ObjectTypePolicy
	default:
		return ObjectTypeOther
	}
}

// DisplayName returns the human-readable form used in CLI output.
func (t ObjectType) DisplayName() string {
	switch t {
	case ObjectTypeMaterializedView:
		return "Materialized View"
	case "":
		return "Other"
	default:
		s := string(t)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// IsExecutable reports whether the object type carries executable code
// rather than a declarative definition.
func (t ObjectType) IsExecutable() bool {
	switch t {
	case ObjectTypeProcedure, ObjectTypeFunction, ObjectTypeTrigger, ObjectTypeEvent:
		return true
	default:
		return false
	}
}
