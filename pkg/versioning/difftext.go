package versioning

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/zeebo/xxh3"
)

// diffContextLines is the number of unchanged lines shown around each
// hunk in unified diff output.
const diffContextLines = 3

// ContentHash returns the xxh3 hash of an object definition, rendered
// as a fixed-width hex string. Two definitions are treated as identical
// exactly when their hashes match.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(content))
}

// unifiedDiff renders a unified text diff between two object
// definitions.
func unifiedDiff(fromLabel, toLabel, from, to string) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  diffContextLines,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render unified diff: %w", err)
	}
	return text, nil
}
