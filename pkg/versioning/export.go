package versioning

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// exportFormatVersion is bumped when the export layout changes
// incompatibly.
const exportFormatVersion = 1

// Export is a portable JSON snapshot of version history, used for
// backups and for moving history between machines.
type Export struct {
	FormatVersion int             `json:"format_version"`
	ExportedAt    time.Time       `json:"exported_at"`
	Description   string          `json:"description,omitempty"`
	Versions      []*VersionEntry `json:"versions"`
	Tags          []*VersionTag   `json:"tags"`
}

// JSON renders the export as indented JSON.
func (e *Export) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return data, nil
}

// ParseExport decodes an export previously rendered with JSON.
func ParseExport(data []byte) (*Export, error) {
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}
	return &export, nil
}

// ImportOptions controls how ImportVersions treats incoming entries.
type ImportOptions struct {
	// SkipDuplicates skips versions and tags that already exist instead
	// of failing on them.
	SkipDuplicates bool
	// RemapConnectionID rewrites every imported version onto a
	// different connection.
	RemapConnectionID *uuid.UUID
}

// ImportResult counts what an import actually did.
type ImportResult struct {
	VersionsImported int
	VersionsSkipped  int
	TagsImported     int
	TagsSkipped      int
}

// ExportVersions collects all versions and tags recorded for a
// connection into a portable export.
func ExportVersions(ctx context.Context, repo Repository, connectionID uuid.UUID, description string) (*Export, error) {
	versions, err := repo.VersionsForConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	export := &Export{
		FormatVersion: exportFormatVersion,
		ExportedAt:    nowUTC(),
		Description:   description,
		Versions:      versions,
		Tags:          make([]*VersionTag, 0),
	}

	for _, version := range versions {
		tags, err := repo.Tags(ctx, version.ID)
		if err != nil {
			return nil, err
		}
		export.Tags = append(export.Tags, tags...)
	}

	return export, nil
}

// ImportVersions replays an export into a repository. Content hashes
// are recomputed from the imported content rather than trusted from the
// export. Tags referencing versions absent from both the export and the
// store are skipped.
func ImportVersions(ctx context.Context, repo Repository, export *Export, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	for _, exported := range export.Versions {
		entry := *exported
		entry.ContentHash = ContentHash(entry.Content)
		if opts.RemapConnectionID != nil {
			entry.ConnectionID = *opts.RemapConnectionID
		}

		if opts.SkipDuplicates {
			existing, err := repo.Version(ctx, entry.ID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				result.VersionsSkipped++
				continue
			}
		}

		if err := repo.SaveVersion(ctx, &entry); err != nil {
			return nil, err
		}
		result.VersionsImported++
	}

	for _, tag := range export.Tags {
		if opts.SkipDuplicates {
			existing, err := repo.Tags(ctx, tag.VersionID)
			if err != nil {
				return nil, err
			}
			if hasTagNamed(existing, tag.Name) {
				result.TagsSkipped++
				continue
			}
		}

		version, err := repo.Version(ctx, tag.VersionID)
		if err != nil {
			return nil, err
		}
		if version == nil {
			result.TagsSkipped++
			continue
		}

		if _, err := repo.Tag(ctx, tag.VersionID, tag.Name, tag.Description); err != nil {
			return nil, err
		}
		result.TagsImported++
	}

	return result, nil
}

func hasTagNamed(tags []*VersionTag, name string) bool {
	for _, tag := range tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}
