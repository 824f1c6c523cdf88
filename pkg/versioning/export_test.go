package versioning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundtrip(t *testing.T) {
	source := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	v1 := testCommit(t, source, connID, "my_func", "v1 content", "Version 1")
	v2 := testCommit(t, source, connID, "my_func", "v2 content", "Version 2")
	_, err := source.Tag(ctx, v1.ID, "v1.0", "First release")
	require.NoError(t, err)

	export, err := ExportVersions(ctx, source, connID, "backup before upgrade")
	require.NoError(t, err)
	assert.Equal(t, 1, export.FormatVersion)
	assert.Equal(t, "backup before upgrade", export.Description)
	assert.Len(t, export.Versions, 2)
	assert.Len(t, export.Tags, 1)

	data, err := export.JSON()
	require.NoError(t, err)

	parsed, err := ParseExport(data)
	require.NoError(t, err)
	assert.Equal(t, export.FormatVersion, parsed.FormatVersion)
	assert.Len(t, parsed.Versions, 2)

	target := newTestRepository(t)
	result, err := ImportVersions(ctx, target, parsed, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.VersionsImported)
	assert.Equal(t, 0, result.VersionsSkipped)
	assert.Equal(t, 1, result.TagsImported)

	imported, err := target.Version(ctx, v2.ID)
	require.NoError(t, err)
	require.NotNil(t, imported)
	assert.Equal(t, "v2 content", imported.Content)
	require.NotNil(t, imported.ParentID)
	assert.Equal(t, v1.ID, *imported.ParentID)

	byTag, err := target.VersionByTag(ctx, connID, "public.my_func", "v1.0")
	require.NoError(t, err)
	require.NotNil(t, byTag)
	assert.Equal(t, v1.ID, byTag.ID)
}

func TestImportSkipDuplicates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	v1 := testCommit(t, repo, connID, "my_func", "content", "Version 1")
	_, err := repo.Tag(ctx, v1.ID, "v1.0", "")
	require.NoError(t, err)

	export, err := ExportVersions(ctx, repo, connID, "")
	require.NoError(t, err)

	// Importing back into the same store with duplicates skipped is a
	// no-op.
	result, err := ImportVersions(ctx, repo, export, ImportOptions{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.VersionsImported)
	assert.Equal(t, 1, result.VersionsSkipped)
	assert.Equal(t, 0, result.TagsImported)
	assert.Equal(t, 1, result.TagsSkipped)

	// Without skipping, the duplicate primary key must surface.
	_, err = ImportVersions(ctx, repo, export, ImportOptions{})
	assert.Error(t, err)
}

func TestImportRemapsConnection(t *testing.T) {
	source := newTestRepository(t)
	ctx := context.Background()
	connID := uuid.New()

	testCommit(t, source, connID, "my_func", "content", "Version 1")

	export, err := ExportVersions(ctx, source, connID, "")
	require.NoError(t, err)

	target := newTestRepository(t)
	newConnID := uuid.New()
	result, err := ImportVersions(ctx, target, export, ImportOptions{RemapConnectionID: &newConnID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.VersionsImported)

	remapped, err := target.VersionsForConnection(ctx, newConnID)
	require.NoError(t, err)
	require.Len(t, remapped, 1)
	assert.Equal(t, newConnID, remapped[0].ConnectionID)

	original, err := target.VersionsForConnection(ctx, connID)
	require.NoError(t, err)
	assert.Empty(t, original)
}

func TestImportSkipsTagsForMissingVersions(t *testing.T) {
	target := newTestRepository(t)

	export := &Export{
		FormatVersion: exportFormatVersion,
		ExportedAt:    nowUTC(),
		Tags: []*VersionTag{
			{ID: uuid.New(), VersionID: uuid.New(), Name: "orphan", CreatedAt: nowUTC()},
		},
	}

	result, err := ImportVersions(context.Background(), target, export, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TagsImported)
	assert.Equal(t, 1, result.TagsSkipped)
}

func TestImportRecomputesContentHash(t *testing.T) {
	target := newTestRepository(t)
	ctx := context.Background()

	entry := NewVersionEntry(CommitRequest{
		ConnectionID: uuid.New(),
		ObjectType:   ObjectTypeView,
		ObjectSchema: "public",
		ObjectName:   "my_view",
		Content:      "SELECT 1",
		Message:      "Initial",
	}, nil)
	entry.ContentHash = "tampered"

	export := &Export{
		FormatVersion: exportFormatVersion,
		ExportedAt:    nowUTC(),
		Versions:      []*VersionEntry{entry},
	}

	_, err := ImportVersions(ctx, target, export, ImportOptions{})
	require.NoError(t, err)

	imported, err := target.Version(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, imported)
	assert.Equal(t, ContentHash("SELECT 1"), imported.ContentHash)
}
