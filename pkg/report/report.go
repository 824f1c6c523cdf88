// Package report renders a compare.SchemaDiff for people and machines:
// an indented plain-text report with breaking-change markers, or a YAML
// or JSON serialization of the diff structure. Rendering lives here so
// the compare engine stays a pure data producer.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skylinedb/schemadiff/pkg/compare"
)

// ErrUnknownFormat is returned when a format name does not parse.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects the output encoding of a rendered diff.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat normalizes a format name. It accepts the canonical names
// plus the usual abbreviations (txt, yml).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "plain":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Options tunes the text renderer. The zero value produces a plain
// report; YAML and JSON output ignore it.
type Options struct {
	// SourceDialect and TargetDialect, when both are set and differ, let
	// the text renderer flag column type changes that are just the
	// expected cross-dialect spelling of the same type.
	SourceDialect string
	TargetDialect string
}

// Render encodes the diff in the requested format. The returned string
// always ends with a newline.
func Render(diff *compare.SchemaDiff, format Format, opts Options) (string, error) {
	switch format {
	case FormatText:
		return RenderText(diff, opts), nil
	case FormatYAML:
		return RenderYAML(diff)
	case FormatJSON:
		return RenderJSON(diff)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// RenderYAML serializes the diff as YAML.
func RenderYAML(diff *compare.SchemaDiff) (string, error) {
	out, err := yaml.Marshal(diff)
	if err != nil {
		return "", fmt.Errorf("failed to marshal diff to YAML: %w", err)
	}
	return string(out), nil
}

// RenderJSON serializes the diff as indented JSON.
func RenderJSON(diff *compare.SchemaDiff) (string, error) {
	out, err := json.MarshalIndent(diff, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal diff to JSON: %w", err)
	}
	return string(out) + "\n", nil
}
