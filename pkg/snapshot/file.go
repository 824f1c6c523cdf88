package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skylinedb/schemadiff/pkg/apperrors"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// Save writes the snapshot to path. The extension picks the format:
// .json gets indented JSON, everything else YAML.
func Save(snap *schema.Snapshot, path string) error {
	var (
		data []byte
		err  error
	)
	if isJSONPath(path) {
		data, err = json.MarshalIndent(snap, "", "  ")
	} else {
		data, err = yaml.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

// Load reads a snapshot previously written by Save. Files that do not
// parse, or parse into something that is not a usable snapshot, fail with
// apperrors.ErrInvalidSnapshot.
func Load(path string) (*schema.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var snap schema.Snapshot
	if isJSONPath(path) {
		err = json.Unmarshal(data, &snap)
	} else {
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", apperrors.ErrInvalidSnapshot, filepath.Base(path), err)
	}

	if snap.Dialect == "" {
		return nil, fmt.Errorf("%w: missing dialect", apperrors.ErrInvalidSnapshot)
	}
	if snap.CapturedAt.IsZero() {
		return nil, fmt.Errorf("%w: missing capture time", apperrors.ErrInvalidSnapshot)
	}
	if snap.Details == nil {
		snap.Details = make(map[string]schema.TableDetails)
	}
	return &snap, nil
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
