package versioning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/apperrors"
)

// Repository provides version control operations for database object
// definitions, backed by a SQLite version store.
type Repository interface {
	// SaveVersion persists an entry verbatim, keeping its identity and
	// parent link. Commit is the usual entry point; SaveVersion exists
	// for history imports.
	SaveVersion(ctx context.Context, entry *VersionEntry) error
	// Commit records a new version of an object. The latest existing
	// version, if any, becomes the parent.
	Commit(ctx context.Context, req CommitRequest) (*VersionEntry, error)
	// Version fetches one version by ID, or nil when it does not exist.
	Version(ctx context.Context, versionID uuid.UUID) (*VersionEntry, error)
	// Versions lists all versions of an object, newest first.
	Versions(ctx context.Context, connectionID uuid.UUID, objectID string) ([]*VersionEntry, error)
	// VersionsForConnection lists every version recorded for a
	// connection, newest first.
	VersionsForConnection(ctx context.Context, connectionID uuid.UUID) ([]*VersionEntry, error)
	// Latest returns an object's most recent version, or nil when the
	// object has never been committed.
	Latest(ctx context.Context, connectionID uuid.UUID, objectID string) (*VersionEntry, error)
	// History walks the parent chain starting at a version, returning
	// at most limit entries, newest first.
	History(ctx context.Context, versionID uuid.UUID, limit int) ([]*VersionEntry, error)

	// Diff compares two committed versions.
	Diff(ctx context.Context, fromID, toID uuid.UUID) (*VersionDiff, error)
	// DiffWithParent compares a version against its parent. Returns nil
	// for a root version.
	DiffWithParent(ctx context.Context, versionID uuid.UUID) (*VersionDiff, error)
	// DiffWithCurrent compares live content against the latest
	// committed version. Returns nil when nothing has been committed.
	DiffWithCurrent(ctx context.Context, connectionID uuid.UUID, objectID, currentContent string) (*CurrentDiff, error)
	// HasChanges reports whether live content differs from the latest
	// committed version. An object with no versions always has changes.
	HasChanges(ctx context.Context, connectionID uuid.UUID, objectID, currentContent string) (bool, error)

	// Tag names a version. Tag names are unique per version.
	Tag(ctx context.Context, versionID uuid.UUID, name, description string) (*VersionTag, error)
	// Untag removes a named tag from a version.
	Untag(ctx context.Context, versionID uuid.UUID, name string) error
	// Tags lists a version's tags ordered by name.
	Tags(ctx context.Context, versionID uuid.UUID) ([]*VersionTag, error)
	// VersionByTag resolves a tag name to a version of an object, or
	// nil when no version carries the tag.
	VersionByTag(ctx context.Context, connectionID uuid.UUID, objectID, tagName string) (*VersionEntry, error)

	// Track puts an object under version control for a connection.
	// Tracking an already tracked object refreshes its entry.
	Track(ctx context.Context, connectionID uuid.UUID, objectType ObjectType, objectSchema, objectName string) error
	// Untrack removes an object from version control. Returns
	// apperrors.ErrObjectNotTracked when it was not tracked.
	Untrack(ctx context.Context, connectionID uuid.UUID, objectID string) error
	// IsTracked reports whether an object is under version control.
	IsTracked(ctx context.Context, connectionID uuid.UUID, objectID string) (bool, error)
	// TrackedObjects lists tracked objects ordered by object name.
	TrackedObjects(ctx context.Context, connectionID uuid.UUID) ([]*TrackedObject, error)

	// ListVersionedObjects summarizes every object with at least one
	// version, ordered by object name.
	ListVersionedObjects(ctx context.Context, connectionID uuid.UUID) ([]*VersionedObjectInfo, error)

	// DeleteVersion removes one version, splicing its children onto its
	// parent so history chains stay connected.
	DeleteVersion(ctx context.Context, versionID uuid.UUID) error
	// DeleteObjectVersions removes all versions and tags of an object.
	DeleteObjectVersions(ctx context.Context, connectionID uuid.UUID, objectID string) error
	// DeleteConnectionVersions removes all versions, tags and tracking
	// entries for a connection.
	DeleteConnectionVersions(ctx context.Context, connectionID uuid.UUID) error
}

type repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepository creates a Repository over an open version store handle,
// typically one from OpenDatabase.
func NewRepository(db *sql.DB, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &repository{db: db, logger: logger}
}

var _ Repository = (*repository)(nil)

func (r *repository) SaveVersion(ctx context.Context, entry *VersionEntry) error {
	query := `
		INSERT INTO versions (
			id, connection_id, object_id, object_type, object_schema, object_name,
			content, content_hash, message, author, created_at, parent_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var parentID sql.NullString
	if entry.ParentID != nil {
		parentID = nullString(entry.ParentID.String())
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID.String(), entry.ConnectionID.String(), entry.ObjectID, string(entry.ObjectType),
		nullString(entry.ObjectSchema), entry.ObjectName, entry.Content, entry.ContentHash,
		entry.Message, nullString(entry.Author), formatTime(entry.CreatedAt), parentID,
	)
	if err != nil {
		return fmt.Errorf("failed to save version: %w", err)
	}

	return nil
}

func (r *repository) Commit(ctx context.Context, req CommitRequest) (*VersionEntry, error) {
	objectID := MakeObjectID(req.ObjectSchema, req.ObjectName)

	var parentID *uuid.UUID
	latest, err := r.Latest(ctx, req.ConnectionID, objectID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		parentID = &latest.ID
	}

	entry := NewVersionEntry(req, parentID)
	if err := r.SaveVersion(ctx, entry); err != nil {
		return nil, err
	}

	r.logger.Debug("Committed object version",
		zap.String("object_id", entry.ObjectID),
		zap.String("version_id", entry.ID.String()))
	return entry, nil
}

func (r *repository) Version(ctx context.Context, versionID uuid.UUID) (*VersionEntry, error) {
	query := `
		SELECT id, connection_id, object_id, object_type, object_schema, object_name,
		       content, content_hash, message, author, created_at, parent_id
		FROM versions
		WHERE id = ?`

	entry, err := scanVersionEntry(r.db.QueryRowContext(ctx, query, versionID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return entry, nil
}

func (r *repository) Versions(ctx context.Context, connectionID uuid.UUID, objectID string) ([]*VersionEntry, error) {
	query := `
		SELECT id, connection_id, object_id, object_type, object_schema, object_name,
		       content, content_hash, message, author, created_at, parent_id
		FROM versions
		WHERE connection_id = ? AND object_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, connectionID.String(), objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	return collectVersionEntries(rows)
}

func (r *repository) VersionsForConnection(ctx context.Context, connectionID uuid.UUID) ([]*VersionEntry, error) {
	query := `
		SELECT id, connection_id, object_id, object_type, object_schema, object_name,
		       content, content_hash, message, author, created_at, parent_id
		FROM versions
		WHERE connection_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, connectionID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	return collectVersionEntries(rows)
}

func (r *repository) Latest(ctx context.Context, connectionID uuid.UUID, objectID string) (*VersionEntry, error) {
	query := `
		SELECT id, connection_id, object_id, object_type, object_schema, object_name,
		       content, content_hash, message, author, created_at, parent_id
		FROM versions
		WHERE connection_id = ? AND object_id = ?
		ORDER BY created_at DESC
		LIMIT 1`

	entry, err := scanVersionEntry(r.db.QueryRowContext(ctx, query, connectionID.String(), objectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Never committed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest version: %w", err)
	}
	return entry, nil
}

func (r *repository) History(ctx context.Context, versionID uuid.UUID, limit int) ([]*VersionEntry, error) {
	history := make([]*VersionEntry, 0)

	currentID := &versionID
	for currentID != nil && len(history) < limit {
		entry, err := r.Version(ctx, *currentID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			break
		}
		history = append(history, entry)
		currentID = entry.ParentID
	}

	return history, nil
}

func (r *repository) Diff(ctx context.Context, fromID, toID uuid.UUID) (*VersionDiff, error) {
	from, err := r.Version(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, fmt.Errorf("from version %s: %w", fromID, apperrors.ErrVersionNotFound)
	}

	to, err := r.Version(ctx, toID)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, fmt.Errorf("to version %s: %w", toID, apperrors.ErrVersionNotFound)
	}

	unified, err := unifiedDiff(versionLabel(from), versionLabel(to), from.Content, to.Content)
	if err != nil {
		return nil, err
	}

	return &VersionDiff{
		From:        from,
		To:          to,
		UnifiedDiff: unified,
		IsIdentical: from.ContentHash == to.ContentHash,
	}, nil
}

func (r *repository) DiffWithParent(ctx context.Context, versionID uuid.UUID) (*VersionDiff, error) {
	version, err := r.Version(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, fmt.Errorf("version %s: %w", versionID, apperrors.ErrVersionNotFound)
	}
	if version.ParentID == nil {
		return nil, nil // Root version, nothing to compare against
	}
	return r.Diff(ctx, *version.ParentID, versionID)
}

func (r *repository) DiffWithCurrent(ctx context.Context, connectionID uuid.UUID, objectID, currentContent string) (*CurrentDiff, error) {
	latest, err := r.Latest(ctx, connectionID, objectID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}

	unified, err := unifiedDiff(versionLabel(latest), objectID+"@current", latest.Content, currentContent)
	if err != nil {
		return nil, err
	}

	return &CurrentDiff{
		LatestVersion:  latest,
		CurrentContent: currentContent,
		UnifiedDiff:    unified,
		IsModified:     latest.ContentHash != ContentHash(currentContent),
	}, nil
}

func (r *repository) HasChanges(ctx context.Context, connectionID uuid.UUID, objectID, currentContent string) (bool, error) {
	latest, err := r.Latest(ctx, connectionID, objectID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return true, nil // Never committed, so everything is new
	}
	return latest.ContentHash != ContentHash(currentContent), nil
}

func (r *repository) Tag(ctx context.Context, versionID uuid.UUID, name, description string) (*VersionTag, error) {
	tag := &VersionTag{
		ID:          uuid.New(),
		VersionID:   versionID,
		Name:        name,
		Description: description,
		CreatedAt:   nowUTC(),
	}

	query := `
		INSERT INTO version_tags (id, version_id, name, description, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		tag.ID.String(), tag.VersionID.String(), tag.Name,
		nullString(tag.Description), formatTime(tag.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to tag version: %w", err)
	}

	return tag, nil
}

func (r *repository) Untag(ctx context.Context, versionID uuid.UUID, name string) error {
	query := `DELETE FROM version_tags WHERE version_id = ? AND name = ?`

	if _, err := r.db.ExecContext(ctx, query, versionID.String(), name); err != nil {
		return fmt.Errorf("failed to remove tag: %w", err)
	}
	return nil
}

func (r *repository) Tags(ctx context.Context, versionID uuid.UUID) ([]*VersionTag, error) {
	query := `
		SELECT id, version_id, name, description, created_at
		FROM version_tags
		WHERE version_id = ?
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, versionID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*VersionTag, 0)
	for rows.Next() {
		var (
			tag          VersionTag
			idStr        string
			versionIDStr string
			description  sql.NullString
			createdStr   string
		)
		if err := rows.Scan(&idStr, &versionIDStr, &tag.Name, &description, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		if tag.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("failed to parse tag id %q: %w", idStr, err)
		}
		if tag.VersionID, err = uuid.Parse(versionIDStr); err != nil {
			return nil, fmt.Errorf("failed to parse tag version id %q: %w", versionIDStr, err)
		}
		tag.Description = description.String
		if tag.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

func (r *repository) VersionByTag(ctx context.Context, connectionID uuid.UUID, objectID, tagName string) (*VersionEntry, error) {
	query := `
		SELECT v.id, v.connection_id, v.object_id, v.object_type, v.object_schema, v.object_name,
		       v.content, v.content_hash, v.message, v.author, v.created_at, v.parent_id
		FROM versions v
		INNER JOIN version_tags t ON v.id = t.version_id
		WHERE v.connection_id = ? AND v.object_id = ? AND t.name = ?`

	entry, err := scanVersionEntry(r.db.QueryRowContext(ctx, query, connectionID.String(), objectID, tagName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No version carries this tag
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version by tag: %w", err)
	}
	return entry, nil
}

func (r *repository) Track(ctx context.Context, connectionID uuid.UUID, objectType ObjectType, objectSchema, objectName string) error {
	query := `
		INSERT OR REPLACE INTO tracked_objects (
			id, connection_id, object_id, object_type, object_schema, object_name, tracked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	objectID := MakeObjectID(objectSchema, objectName)
	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), connectionID.String(), objectID, string(objectType),
		nullString(objectSchema), objectName, formatTime(nowUTC()),
	)
	if err != nil {
		return fmt.Errorf("failed to track object: %w", err)
	}

	r.logger.Debug("Tracking object", zap.String("object_id", objectID))
	return nil
}

func (r *repository) Untrack(ctx context.Context, connectionID uuid.UUID, objectID string) error {
	query := `DELETE FROM tracked_objects WHERE connection_id = ? AND object_id = ?`

	res, err := r.db.ExecContext(ctx, query, connectionID.String(), objectID)
	if err != nil {
		return fmt.Errorf("failed to untrack object: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to untrack object: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("object %s: %w", objectID, apperrors.ErrObjectNotTracked)
	}
	return nil
}

func (r *repository) IsTracked(ctx context.Context, connectionID uuid.UUID, objectID string) (bool, error) {
	query := `SELECT COUNT(*) FROM tracked_objects WHERE connection_id = ? AND object_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, connectionID.String(), objectID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check tracking: %w", err)
	}
	return count > 0, nil
}

func (r *repository) TrackedObjects(ctx context.Context, connectionID uuid.UUID) ([]*TrackedObject, error) {
	query := `
		SELECT id, connection_id, object_id, object_type, object_schema, object_name, tracked_at
		FROM tracked_objects
		WHERE connection_id = ?
		ORDER BY object_name ASC`

	rows, err := r.db.QueryContext(ctx, query, connectionID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked objects: %w", err)
	}
	defer rows.Close()

	objects := make([]*TrackedObject, 0)
	for rows.Next() {
		var (
			obj        TrackedObject
			idStr      string
			connIDStr  string
			typeStr    string
			schemaStr  sql.NullString
			trackedStr string
		)
		if err := rows.Scan(&idStr, &connIDStr, &obj.ObjectID, &typeStr, &schemaStr, &obj.ObjectName, &trackedStr); err != nil {
			return nil, fmt.Errorf("failed to scan tracked object: %w", err)
		}
		if obj.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("failed to parse tracked object id %q: %w", idStr, err)
		}
		if obj.ConnectionID, err = uuid.Parse(connIDStr); err != nil {
			return nil, fmt.Errorf("failed to parse tracked object connection id %q: %w", connIDStr, err)
		}
		obj.ObjectType = ParseObjectType(typeStr)
		obj.ObjectSchema = schemaStr.String
		if obj.TrackedAt, err = parseTime(trackedStr); err != nil {
			return nil, err
		}
		objects = append(objects, &obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked objects: %w", err)
	}

	return objects, nil
}

func (r *repository) ListVersionedObjects(ctx context.Context, connectionID uuid.UUID) ([]*VersionedObjectInfo, error) {
	query := `
		SELECT object_id, object_type, object_schema, object_name,
		       COUNT(*) AS version_count,
		       MAX(created_at) AS latest_version_at
		FROM versions
		WHERE connection_id = ?
		GROUP BY object_id, object_type, object_schema, object_name
		ORDER BY object_name ASC`

	rows, err := r.db.QueryContext(ctx, query, connectionID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list versioned objects: %w", err)
	}
	defer rows.Close()

	infos := make([]*VersionedObjectInfo, 0)
	for rows.Next() {
		var (
			info      VersionedObjectInfo
			typeStr   string
			schemaStr sql.NullString
			latestStr string
		)
		if err := rows.Scan(&info.ObjectID, &typeStr, &schemaStr, &info.ObjectName, &info.VersionCount, &latestStr); err != nil {
			return nil, fmt.Errorf("failed to scan versioned object: %w", err)
		}
		info.ObjectType = ParseObjectType(typeStr)
		info.ObjectSchema = schemaStr.String
		if info.LatestVersionAt, err = parseTime(latestStr); err != nil {
			return nil, err
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating versioned objects: %w", err)
	}

	return infos, nil
}

func (r *repository) DeleteVersion(ctx context.Context, versionID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var parentID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT parent_id FROM versions WHERE id = ?`, versionID.String(),
	).Scan(&parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("version %s: %w", versionID, apperrors.ErrVersionNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load version: %w", err)
	}

	// Splice children onto the deleted version's parent so their
	// history chains stay intact.
	if _, err := tx.ExecContext(ctx,
		`UPDATE versions SET parent_id = ? WHERE parent_id = ?`, parentID, versionID.String(),
	); err != nil {
		return fmt.Errorf("failed to reparent child versions: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM versions WHERE id = ?`, versionID.String(),
	); err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM version_tags WHERE version_id = ?`, versionID.String(),
	); err != nil {
		return fmt.Errorf("failed to delete version tags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug("Deleted version", zap.String("version_id", versionID.String()))
	return nil
}

func (r *repository) DeleteObjectVersions(ctx context.Context, connectionID uuid.UUID, objectID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM version_tags WHERE version_id IN (
			SELECT id FROM versions WHERE connection_id = ? AND object_id = ?
		)`, connectionID.String(), objectID,
	); err != nil {
		return fmt.Errorf("failed to delete object tags: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM versions WHERE connection_id = ? AND object_id = ?`,
		connectionID.String(), objectID,
	); err != nil {
		return fmt.Errorf("failed to delete object versions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug("Deleted object versions", zap.String("object_id", objectID))
	return nil
}

func (r *repository) DeleteConnectionVersions(ctx context.Context, connectionID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM version_tags WHERE version_id IN (
			SELECT id FROM versions WHERE connection_id = ?
		)`, connectionID.String(),
	); err != nil {
		return fmt.Errorf("failed to delete connection tags: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM versions WHERE connection_id = ?`, connectionID.String(),
	); err != nil {
		return fmt.Errorf("failed to delete connection versions: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tracked_objects WHERE connection_id = ?`, connectionID.String(),
	); err != nil {
		return fmt.Errorf("failed to delete connection tracking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug("Deleted connection versions", zap.String("connection_id", connectionID.String()))
	return nil
}

// versionLabel names a diff side, e.g. "public.my_view@3fa85f64".
func versionLabel(entry *VersionEntry) string {
	return entry.ObjectID + "@" + entry.ShortID()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersionEntry(row rowScanner) (*VersionEntry, error) {
	var (
		entry      VersionEntry
		idStr      string
		connIDStr  string
		typeStr    string
		schemaStr  sql.NullString
		authorStr  sql.NullString
		createdStr string
		parentStr  sql.NullString
	)

	err := row.Scan(&idStr, &connIDStr, &entry.ObjectID, &typeStr, &schemaStr, &entry.ObjectName,
		&entry.Content, &entry.ContentHash, &entry.Message, &authorStr, &createdStr, &parentStr)
	if err != nil {
		return nil, err
	}

	if entry.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse version id %q: %w", idStr, err)
	}
	if entry.ConnectionID, err = uuid.Parse(connIDStr); err != nil {
		return nil, fmt.Errorf("failed to parse connection id %q: %w", connIDStr, err)
	}
	entry.ObjectType = ParseObjectType(typeStr)
	entry.ObjectSchema = schemaStr.String
	entry.Author = authorStr.String
	if entry.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, err
	}
	if parentStr.Valid {
		parentID, err := uuid.Parse(parentStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parent version id %q: %w", parentStr.String, err)
		}
		entry.ParentID = &parentID
	}

	return &entry, nil
}

func collectVersionEntries(rows *sql.Rows) ([]*VersionEntry, error) {
	entries := make([]*VersionEntry, 0)
	for rows.Next() {
		entry, err := scanVersionEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating versions: %w", err)
	}
	return entries, nil
}
