package versioning

import (
	"time"

	"github.com/google/uuid"
)

// VersionEntry is one committed version of a database object.
type VersionEntry struct {
	ID           uuid.UUID  `json:"id"`
	ConnectionID uuid.UUID  `json:"connection_id"`
	ObjectID     string     `json:"object_id"`
	ObjectType   ObjectType `json:"object_type"`
	ObjectSchema string     `json:"object_schema,omitempty"`
	ObjectName   string     `json:"object_name"`
	Content      string     `json:"content"`
	ContentHash  string     `json:"content_hash"`
	Message      string     `json:"message"`
	Author       string     `json:"author,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	// ParentID links to the previous version; nil for the first commit.
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// ShortID returns the first eight characters of the version ID for
// display, like an abbreviated git hash.
func (e *VersionEntry) ShortID() string {
	return e.ID.String()[:8]
}

// CommitRequest carries everything needed to commit a new version.
type CommitRequest struct {
	ConnectionID uuid.UUID
	ObjectType   ObjectType
	ObjectSchema string
	ObjectName   string
	Content      string
	Message      string
	Author       string
}

// NewVersionEntry builds a version entry from a commit request, filling
// in identity, object id, content hash and timestamp.
func NewVersionEntry(req CommitRequest, parentID *uuid.UUID) *VersionEntry {
	return &VersionEntry{
		ID:           uuid.New(),
		ConnectionID: req.ConnectionID,
		ObjectID:     MakeObjectID(req.ObjectSchema, req.ObjectName),
		ObjectType:   req.ObjectType,
		ObjectSchema: req.ObjectSchema,
		ObjectName:   req.ObjectName,
		Content:      req.Content,
		ContentHash:  ContentHash(req.Content),
		Message:      req.Message,
		Author:       req.Author,
		CreatedAt:    nowUTC(),
		ParentID:     parentID,
	}
}

// VersionTag is a named pointer to a version, like a git tag.
type VersionTag struct {
	ID          uuid.UUID `json:"id"`
	VersionID   uuid.UUID `json:"version_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrackedObject marks an object whose definition is under version
// control for a connection.
type TrackedObject struct {
	ID           uuid.UUID  `json:"id"`
	ConnectionID uuid.UUID  `json:"connection_id"`
	ObjectID     string     `json:"object_id"`
	ObjectType   ObjectType `json:"object_type"`
	ObjectSchema string     `json:"object_schema,omitempty"`
	ObjectName   string     `json:"object_name"`
	TrackedAt    time.Time  `json:"tracked_at"`
}

// VersionedObjectInfo summarizes one object's version history.
type VersionedObjectInfo struct {
	ObjectID        string     `json:"object_id"`
	ObjectType      ObjectType `json:"object_type"`
	ObjectSchema    string     `json:"object_schema,omitempty"`
	ObjectName      string     `json:"object_name"`
	VersionCount    int        `json:"version_count"`
	LatestVersionAt time.Time  `json:"latest_version_at"`
}

// VersionDiff is the result of comparing two committed versions.
type VersionDiff struct {
	From        *VersionEntry
	To          *VersionEntry
	UnifiedDiff string
	IsIdentical bool
}

// CurrentDiff compares live content against the latest committed
// version of an object.
type CurrentDiff struct {
	LatestVersion  *VersionEntry
	CurrentContent string
	UnifiedDiff    string
	IsModified     bool
}

// MakeObjectID builds the stable object identifier, "schema.name" when
// a schema applies and the bare name otherwise.
func MakeObjectID(schema, name string) string {
	if schema == "" {
		return name
	}
	return schema + "." + name
}
