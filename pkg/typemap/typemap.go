// Package typemap translates SQL data type names between database
// dialects. It powers cross-dialect schema comparison reports, where a
// postgres TEXT column and a mysql LONGTEXT column should be recognized
// as the same logical type rather than flagged as drift.
package typemap

import (
	"errors"
	"fmt"
	"strings"
)

// Dialect identifies a database engine for type mapping purposes. Values
// match the introspector registry names.
type Dialect string

const (
	DialectPostgres Dialect = "postgresql"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
	DialectMSSQL    Dialect = "mssql"
)

var (
	// ErrUnknownDialect is returned for dialect names with no mapping
	// tables, including non-relational engines such as redis.
	ErrUnknownDialect = errors.New("unknown dialect")
	// ErrInvalidType is returned when a type string cannot be parsed.
	ErrInvalidType = errors.New("invalid type format")
)

// ParseDialect resolves a dialect name, accepting the common aliases
// seen in connection configs ("postgres", "mariadb", "sqlserver", ...).
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgresql", "postgres", "pg":
		return DialectPostgres, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mssql", "sqlserver", "sql server":
		return DialectMSSQL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
	}
}

// ParsedType is a SQL type string broken into its components:
// VARCHAR(100)[] parses to {Base: "VARCHAR", Params: ["100"], IsArray: true}.
type ParsedType struct {
	Base    string
	Params  []string
	IsArray bool
}

// ParseType splits a type string into base name, parameters and array
// marker. The base is uppercased; parameters keep their spelling.
func ParseType(typeName string) (ParsedType, error) {
	s := strings.TrimSpace(typeName)
	if s == "" {
		return ParsedType{}, fmt.Errorf("%w: empty type string", ErrInvalidType)
	}

	var parsed ParsedType
	if strings.HasSuffix(s, "[]") {
		parsed.IsArray = true
		s = strings.TrimSuffix(s, "[]")
	}

	openIdx := strings.Index(s, "(")
	if openIdx < 0 {
		parsed.Base = strings.ToUpper(strings.TrimSpace(s))
		return parsed, nil
	}
	closeIdx := strings.LastIndex(s, ")")
	if closeIdx < openIdx {
		return ParsedType{}, fmt.Errorf("%w: %q", ErrInvalidType, typeName)
	}

	parsed.Base = strings.ToUpper(strings.TrimSpace(s[:openIdx]))
	for _, p := range strings.Split(s[openIdx+1:closeIdx], ",") {
		if p = strings.TrimSpace(p); p != "" {
			parsed.Params = append(parsed.Params, p)
		}
	}
	return parsed, nil
}

// SQL renders the parsed type back into a SQL type string.
func (t ParsedType) SQL() string {
	var b strings.Builder
	b.WriteString(t.Base)
	if len(t.Params) > 0 {
		b.WriteString("(")
		b.WriteString(strings.Join(t.Params, ", "))
		b.WriteString(")")
	}
	if t.IsArray {
		b.WriteString("[]")
	}
	return b.String()
}

// Mapper maps type names between dialects using the built-in tables,
// with optional custom overrides taking precedence. The zero value is
// not usable; call NewMapper.
type Mapper struct {
	custom map[customKey]map[Dialect]string
}

type customKey struct {
	dialect  Dialect
	baseType string
}

// NewMapper returns a mapper with the built-in dialect tables and no
// custom overrides.
func NewMapper() *Mapper {
	return &Mapper{custom: make(map[customKey]map[Dialect]string)}
}

// AddCustomMapping overrides the built-in mapping for one type in one
// direction. The source type is matched on its uppercased base name.
func (m *Mapper) AddCustomMapping(sourceDialect Dialect, sourceType string, targetDialect Dialect, targetType string) {
	key := customKey{dialect: sourceDialect, baseType: strings.ToUpper(sourceType)}
	targets, ok := m.custom[key]
	if !ok {
		targets = make(map[Dialect]string)
		m.custom[key] = targets
	}
	targets[targetDialect] = targetType
}

// MapType translates a type string from one dialect to another. Type
// parameters are preserved when the mapped type accepts them, and the
// array marker is always preserved. Mapping a type to its own dialect
// returns it unchanged. Types with no table entry pass through as-is,
// since unknown types are usually user-defined ones that exist on both
// sides under the same name.
func (m *Mapper) MapType(typeName string, source, target Dialect) (string, error) {
	if source == target {
		return typeName, nil
	}

	parsed, err := ParseType(typeName)
	if err != nil {
		return "", err
	}

	if targets, ok := m.custom[customKey{dialect: source, baseType: parsed.Base}]; ok {
		if mapped, ok := targets[target]; ok {
			return applyParams(mapped, parsed.Params, parsed.IsArray), nil
		}
	}

	table, ok := mappingTables[directionKey{from: source, to: target}]
	if !ok {
		return "", fmt.Errorf("%w: no mapping from %s to %s", ErrUnknownDialect, source, target)
	}
	mapped, ok := table[parsed.Base]
	if !ok {
		mapped = parsed.Base
	}
	return applyParams(mapped, parsed.Params, parsed.IsArray), nil
}

// MapType is the package-level convenience form taking dialect names.
func MapType(typeName, sourceDialect, targetDialect string) (string, error) {
	source, err := ParseDialect(sourceDialect)
	if err != nil {
		return "", err
	}
	target, err := ParseDialect(targetDialect)
	if err != nil {
		return "", err
	}
	return NewMapper().MapType(typeName, source, target)
}

// applyParams re-attaches the source parameters when the target type can
// carry them. Mapped types that already embed parameters (TINYINT(1),
// DECIMAL(19, 4)) never accept more.
func applyParams(baseType string, params []string, isArray bool) string {
	t := ParsedType{Base: baseType, IsArray: isArray}
	if len(params) > 0 && acceptsParams(baseType) {
		t.Params = params
	}
	return t.SQL()
}

// acceptsParams reports whether a type name takes a parameter list.
func acceptsParams(typeName string) bool {
	switch strings.ToUpper(typeName) {
	case "VARCHAR", "CHAR", "NVARCHAR", "NCHAR", "VARBINARY", "BINARY",
		"DECIMAL", "NUMERIC", "NUMBER", "FLOAT", "DOUBLE",
		"TIME", "TIMESTAMP", "DATETIME2", "BIT":
		return true
	default:
		return false
	}
}
