package introspect

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/apperrors"
)

// IntrospectorInfo describes a registered dialect adapter.
type IntrospectorInfo struct {
	Dialect     string `json:"dialect"`      // "postgres", "mysql", "sqlite", "mssql", "redis"
	DisplayName string `json:"display_name"` // "PostgreSQL"
	Description string `json:"description"`  // "PostgreSQL 12+ over pgx"
}

// Factory builds a connected introspector from a dialect-specific config
// map. A nil logger is replaced with a no-op logger by the adapter.
type Factory func(ctx context.Context, config map[string]any, logger *zap.Logger) (SchemaIntrospector, error)

// Registration contains info + factory for one dialect adapter.
type Registration struct {
	Info    IntrospectorInfo
	Factory Factory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Dialect] = reg
}

// RegisteredDialects returns info for all registered adapters, sorted by
// dialect name for stable output.
func RegisteredDialects() []IntrospectorInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]IntrospectorInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Dialect < result[j].Dialect })
	return result
}

// IsRegistered reports whether a dialect has been registered.
func IsRegistered(dialect string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dialect]
	return ok
}

// GetFactory returns the factory for a dialect, or nil if the dialect is
// not registered.
func GetFactory(dialect string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[dialect]; ok {
		return reg.Factory
	}
	return nil
}

// New builds a connected introspector for the dialect, failing with
// apperrors.ErrDialectNotRegistered when no adapter was imported for it.
func New(ctx context.Context, dialect string, config map[string]any, logger *zap.Logger) (SchemaIntrospector, error) {
	factory := GetFactory(dialect)
	if factory == nil {
		return nil, fmt.Errorf("dialect %q: %w", dialect, apperrors.ErrDialectNotRegistered)
	}
	return factory(ctx, config, logger)
}
