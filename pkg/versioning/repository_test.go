package versioning

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/apperrors"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()

	db, err := OpenDatabase(filepath.Join(t.TempDir(), "versions.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db, zap.NewNop())
}

func testCommit(t *testing.T, repo Repository, connID uuid.UUID, name, content, message string) *VersionEntry {
	t.Helper()

	entry, err := repo.Commit(context.Background(), CommitRequest{
		ConnectionID: connID,
		ObjectType:   ObjectTypeFunction,
		ObjectSchema: "public",
		ObjectName:   name,
		Content:      content,
		Message:      message,
	})
	require.NoError(t, err)
	return entry
}

func TestCommitAndRetrieve(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	committed, err := repo.Commit(ctx, CommitRequest{
		ConnectionID: connID,
		ObjectType:   ObjectTypeFunction,
		ObjectSchema: "public",
		ObjectName:   "my_function",
		Content:      "CREATE FUNCTION my_function() RETURNS void AS $$ BEGIN END; $$ LANGUAGE plpgsql;",
		Message:      "Initial version",
		Author:       "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "public.my_function", committed.ObjectID)
	assert.Nil(t, committed.ParentID)
	assert.NotEmpty(t, committed.ContentHash)

	loaded, err := repo.Version(ctx, committed.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, committed.ID, loaded.ID)
	assert.Equal(t, connID, loaded.ConnectionID)
	assert.Equal(t, ObjectTypeFunction, loaded.ObjectType)
	assert.Equal(t, "public", loaded.ObjectSchema)
	assert.Equal(t, "my_function", loaded.ObjectName)
	assert.Equal(t, committed.Content, loaded.Content)
	assert.Equal(t, committed.ContentHash, loaded.ContentHash)
	assert.Equal(t, "Initial version", loaded.Message)
	assert.Equal(t, "alice", loaded.Author)
	assert.Equal(t, committed.CreatedAt, loaded.CreatedAt)
	assert.Nil(t, loaded.ParentID)
}

func TestVersionNotFoundReturnsNil(t *testing.T) {
	repo := newTestRepository(t)

	entry, err := repo.Version(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCommitChainsParents(t *testing.T) {
	repo := newTestRepository(t)
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "v1 content", "Version 1")
	v2 := testCommit(t, repo, connID, "my_func", "v2 content", "Version 2")

	assert.Nil(t, v1.ParentID)
	require.NotNil(t, v2.ParentID)
	assert.Equal(t, v1.ID, *v2.ParentID)

	history, err := repo.History(context.Background(), v2.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Version 2", history[0].Message)
	assert.Equal(t, "Version 1", history[1].Message)

	limited, err := repo.History(context.Background(), v2.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, v2.ID, limited[0].ID)
}

func TestCommitsToDifferentObjectsAreIndependent(t *testing.T) {
	repo := newTestRepository(t)
	connID := uuid.New()

	funcV1 := testCommit(t, repo, connID, "my_func", "func content", "func v1")
	viewV1 := testCommit(t, repo, connID, "my_view", "view content", "view v1")

	assert.Nil(t, funcV1.ParentID)
	assert.Nil(t, viewV1.ParentID, "first commit of a different object must not chain onto another object")
}

func TestLatest(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	latest, err := repo.Latest(ctx, connID, "public.my_func")
	require.NoError(t, err)
	assert.Nil(t, latest)

	testCommit(t, repo, connID, "my_func", "v1", "Version 1")
	v2 := testCommit(t, repo, connID, "my_func", "v2", "Version 2")

	latest, err = repo.Latest(ctx, connID, "public.my_func")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, v2.ID, latest.ID)
}

func TestVersionsNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	connID := uuid.New()

	testCommit(t, repo, connID, "my_func", "v1", "Version 1")
	testCommit(t, repo, connID, "my_func", "v2", "Version 2")
	testCommit(t, repo, connID, "my_func", "v3", "Version 3")

	versions, err := repo.Versions(context.Background(), connID, "public.my_func")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "Version 3", versions[0].Message)
	assert.Equal(t, "Version 2", versions[1].Message)
	assert.Equal(t, "Version 1", versions[2].Message)
}

func TestDiff(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "line1\nline2\nline3", "Version 1")
	v2 := testCommit(t, repo, connID, "my_func", "line1\nline2 modified\nline3", "Version 2")

	diff, err := repo.Diff(ctx, v1.ID, v2.ID)
	require.NoError(t, err)
	assert.False(t, diff.IsIdentical)
	assert.Contains(t, diff.UnifiedDiff, "-line2")
	assert.Contains(t, diff.UnifiedDiff, "+line2 modified")
	assert.Equal(t, v1.ID, diff.From.ID)
	assert.Equal(t, v2.ID, diff.To.ID)

	v3 := testCommit(t, repo, connID, "my_func", "line1\nline2 modified\nline3", "Recommit")

	identical, err := repo.Diff(ctx, v2.ID, v3.ID)
	require.NoError(t, err)
	assert.True(t, identical.IsIdentical)
	assert.Empty(t, identical.UnifiedDiff)
}

func TestDiffMissingVersion(t *testing.T) {
	repo := newTestRepository(t)
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "content", "Version 1")

	_, err := repo.Diff(context.Background(), uuid.New(), v1.ID)
	assert.ErrorIs(t, err, apperrors.ErrVersionNotFound)

	_, err = repo.Diff(context.Background(), v1.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrVersionNotFound)
}

func TestDiffWithParent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "v1 content", "Version 1")
	v2 := testCommit(t, repo, connID, "my_func", "v2 content", "Version 2")

	rootDiff, err := repo.DiffWithParent(ctx, v1.ID)
	require.NoError(t, err)
	assert.Nil(t, rootDiff, "root version has no parent to diff against")

	diff, err := repo.DiffWithParent(ctx, v2.ID)
	require.NoError(t, err)
	require.NotNil(t, diff)
	assert.Equal(t, v1.ID, diff.From.ID)
	assert.Equal(t, v2.ID, diff.To.ID)
	assert.False(t, diff.IsIdentical)
}

func TestDiffWithCurrent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	diff, err := repo.DiffWithCurrent(ctx, connID, "public.my_func", "anything")
	require.NoError(t, err)
	assert.Nil(t, diff, "nothing committed yet")

	v1 := testCommit(t, repo, connID, "my_func", "original", "Version 1")

	unchanged, err := repo.DiffWithCurrent(ctx, connID, "public.my_func", "original")
	require.NoError(t, err)
	require.NotNil(t, unchanged)
	assert.False(t, unchanged.IsModified)
	assert.Equal(t, v1.ID, unchanged.LatestVersion.ID)

	changed, err := repo.DiffWithCurrent(ctx, connID, "public.my_func", "edited")
	require.NoError(t, err)
	require.NotNil(t, changed)
	assert.True(t, changed.IsModified)
	assert.Equal(t, "edited", changed.CurrentContent)
	assert.Contains(t, changed.UnifiedDiff, "-original")
	assert.Contains(t, changed.UnifiedDiff, "+edited")
}

func TestHasChanges(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	changed, err := repo.HasChanges(ctx, connID, "public.my_func", "some content")
	require.NoError(t, err)
	assert.True(t, changed, "an object without versions always has changes")

	testCommit(t, repo, connID, "my_func", "original content", "Initial")

	changed, err = repo.HasChanges(ctx, connID, "public.my_func", "original content")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.HasChanges(ctx, connID, "public.my_func", "modified content")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTags(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "content", "Release version")

	tag, err := repo.Tag(ctx, v1.ID, "v1.0", "First release")
	require.NoError(t, err)
	assert.Equal(t, v1.ID, tag.VersionID)
	assert.Equal(t, "v1.0", tag.Name)

	tags, err := repo.Tags(ctx, v1.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "v1.0", tags[0].Name)
	assert.Equal(t, "First release", tags[0].Description)

	byTag, err := repo.VersionByTag(ctx, connID, "public.my_func", "v1.0")
	require.NoError(t, err)
	require.NotNil(t, byTag)
	assert.Equal(t, v1.ID, byTag.ID)

	_, err = repo.Tag(ctx, v1.ID, "v1.0", "duplicate")
	assert.Error(t, err, "tag names are unique per version")

	require.NoError(t, repo.Untag(ctx, v1.ID, "v1.0"))

	byTag, err = repo.VersionByTag(ctx, connID, "public.my_func", "v1.0")
	require.NoError(t, err)
	assert.Nil(t, byTag)
}

func TestTracking(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	require.NoError(t, repo.Track(ctx, connID, ObjectTypeFunction, "public", "my_function"))

	tracked, err := repo.IsTracked(ctx, connID, "public.my_function")
	require.NoError(t, err)
	assert.True(t, tracked)

	// Tracking again refreshes the entry instead of duplicating it.
	require.NoError(t, repo.Track(ctx, connID, ObjectTypeFunction, "public", "my_function"))

	objects, err := repo.TrackedObjects(ctx, connID)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "public.my_function", objects[0].ObjectID)
	assert.Equal(t, ObjectTypeFunction, objects[0].ObjectType)
	assert.Equal(t, "public", objects[0].ObjectSchema)
	assert.Equal(t, "my_function", objects[0].ObjectName)

	require.NoError(t, repo.Untrack(ctx, connID, "public.my_function"))

	tracked, err = repo.IsTracked(ctx, connID, "public.my_function")
	require.NoError(t, err)
	assert.False(t, tracked)

	err = repo.Untrack(ctx, connID, "public.my_function")
	assert.ErrorIs(t, err, apperrors.ErrObjectNotTracked)
}

func TestListVersionedObjects(t *testing.T) {
	repo := newTestRepository(t)
	connID := uuid.New()

	testCommit(t, repo, connID, "beta_func", "v1", "Version 1")
	testCommit(t, repo, connID, "beta_func", "v2", "Version 2")
	testCommit(t, repo, connID, "alpha_view", "v1", "Version 1")
	testCommit(t, repo, uuid.New(), "other_conn_func", "v1", "Version 1")

	infos, err := repo.ListVersionedObjects(context.Background(), connID)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "public.alpha_view", infos[0].ObjectID)
	assert.Equal(t, 1, infos[0].VersionCount)
	assert.Equal(t, "public.beta_func", infos[1].ObjectID)
	assert.Equal(t, 2, infos[1].VersionCount)
	assert.False(t, infos[1].LatestVersionAt.IsZero())
}

func TestDeleteVersionSplicesChain(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "v1", "Version 1")
	v2 := testCommit(t, repo, connID, "my_func", "v2", "Version 2")
	v3 := testCommit(t, repo, connID, "my_func", "v3", "Version 3")

	require.NoError(t, repo.DeleteVersion(ctx, v2.ID))

	gone, err := repo.Version(ctx, v2.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	spliced, err := repo.Version(ctx, v3.ID)
	require.NoError(t, err)
	require.NotNil(t, spliced)
	require.NotNil(t, spliced.ParentID)
	assert.Equal(t, v1.ID, *spliced.ParentID)

	history, err := repo.History(ctx, v3.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, v3.ID, history[0].ID)
	assert.Equal(t, v1.ID, history[1].ID)
}

func TestDeleteVersionNotFound(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.DeleteVersion(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrVersionNotFound)
}

func TestDeleteVersionRemovesTags(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "content", "Version 1")
	_, err := repo.Tag(ctx, v1.ID, "v1.0", "")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteVersion(ctx, v1.ID))

	tags, err := repo.Tags(ctx, v1.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDeleteObjectVersions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "v1", "Version 1")
	testCommit(t, repo, connID, "my_func", "v2", "Version 2")
	keep := testCommit(t, repo, connID, "other_func", "v1", "Version 1")

	_, err := repo.Tag(ctx, v1.ID, "v1.0", "")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteObjectVersions(ctx, connID, "public.my_func"))

	versions, err := repo.Versions(ctx, connID, "public.my_func")
	require.NoError(t, err)
	assert.Empty(t, versions)

	tags, err := repo.Tags(ctx, v1.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	kept, err := repo.Version(ctx, keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestDeleteConnectionVersions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()
	otherConnID := uuid.New()

	testCommit(t, repo, connID, "my_func", "v1", "Version 1")
	require.NoError(t, repo.Track(ctx, connID, ObjectTypeFunction, "public", "my_func"))
	keep := testCommit(t, repo, otherConnID, "other_func", "v1", "Version 1")

	require.NoError(t, repo.DeleteConnectionVersions(ctx, connID))

	versions, err := repo.VersionsForConnection(ctx, connID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	tracked, err := repo.TrackedObjects(ctx, connID)
	require.NoError(t, err)
	assert.Empty(t, tracked)

	kept, err := repo.Version(ctx, keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestOpenDatabaseReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "store", "versions.db")
	connID := uuid.New()

	db, err := OpenDatabase(path, zap.NewNop())
	require.NoError(t, err)
	repo := NewRepository(db, zap.NewNop())
	v1 := testCommit(t, repo, connID, "my_func", "content", "Version 1")
	require.NoError(t, db.Close())

	// Reopening runs migrations again as a no-op and sees the old data.
	db, err = OpenDatabase(path, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	reopened, err := NewRepository(db, zap.NewNop()).Version(context.Background(), v1.ID)
	require.NoError(t, err)
	require.NotNil(t, reopened)
	assert.Equal(t, "content", reopened.Content)
}

func TestMakeObjectID(t *testing.T) {
	assert.Equal(t, "public.users", MakeObjectID("public", "users"))
	assert.Equal(t, "users", MakeObjectID("", "users"))
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("SELECT 1"), ContentHash("SELECT 1"))
	assert.NotEqual(t, ContentHash("SELECT 1"), ContentHash("SELECT 2"))
	assert.Len(t, ContentHash(""), 16)
}

func TestVersionEntryShortID(t *testing.T) {
	entry := NewVersionEntry(CommitRequest{
		ConnectionID: uuid.New(),
		ObjectType:   ObjectTypeView,
		ObjectName:   "v",
	}, nil)

	assert.Len(t, entry.ShortID(), 8)
	assert.Equal(t, entry.ID.String()[:8], entry.ShortID())
}
