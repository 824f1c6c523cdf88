package redis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
	"github.com/skylinedb/schemadiff/pkg/logging"
	"github.com/skylinedb/schemadiff/pkg/retry"
	"github.com/skylinedb/schemadiff/pkg/schema"
)

// scanBatchSize is the COUNT hint passed to SCAN.
const scanBatchSize = 1000

// Introspector maps a Redis keyspace onto the relational model: each key
// becomes a table entry carrying its value type and TTL. Relational
// object kinds (columns, views, routines, ...) are empty.
type Introspector struct {
	config *Config
	client *redis.Client
	logger *zap.Logger
}

// NewIntrospector connects to Redis and verifies the server is reachable.
// If logger is nil, a no-op logger is used.
func NewIntrospector(ctx context.Context, cfg *Config, logger *zap.Logger) (*Introspector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		client.Close()
		logger.Error("failed to reach redis after retries",
			zap.String("addr", cfg.addr()),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Introspector{config: cfg, client: client, logger: logger}, nil
}

// Dialect identifies this introspector.
func (s *Introspector) Dialect() string {
	return "redis"
}

// Close releases the client.
func (s *Introspector) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// ListDatabases parses INFO keyspace, which reports one line per
// non-empty logical database ("db0:keys=42,expires=0,avg_ttl=0").
func (s *Introspector) ListDatabases(ctx context.Context) ([]schema.DatabaseInfo, error) {
	info, err := s.client.Info(ctx, "keyspace").Result()
	if err != nil {
		return nil, fmt.Errorf("query keyspace info: %w", err)
	}

	var databases []schema.DatabaseInfo
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "db") {
			continue
		}
		name, _, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		databases = append(databases, schema.DatabaseInfo{Name: name})
	}

	return databases, nil
}

// ListSchemas returns nothing; Redis has a flat keyspace.
func (s *Introspector) ListSchemas(ctx context.Context) ([]schema.SchemaInfo, error) {
	return nil, nil
}

// ListTables walks the keyspace with SCAN and reports each key as a table
// entry. Value types and TTLs are fetched in a single pipeline, and keys
// are sorted so successive snapshots are comparable.
func (s *Introspector) ListTables(ctx context.Context, schemaName string) ([]schema.TableInfo, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.config.KeyPattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}

	sort.Strings(keys)

	if len(keys) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	typeCmds := make([]*redis.StatusCmd, len(keys))
	ttlCmds := make([]*redis.DurationCmd, len(keys))
	memCmds := make([]*redis.IntCmd, len(keys))
	for i, key := range keys {
		typeCmds[i] = pipe.Type(ctx, key)
		ttlCmds[i] = pipe.TTL(ctx, key)
		memCmds[i] = pipe.MemoryUsage(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("pipeline key metadata: %w", err)
	}

	tables := make([]schema.TableInfo, 0, len(keys))
	for i, key := range keys {
		kv := &schema.KeyValueInfo{KeyType: typeCmds[i].Val()}

		// TTL returns -1 for keys without expiry and -2 for keys that
		// vanished between SCAN and the pipeline.
		if ttl := ttlCmds[i].Val(); ttl > 0 {
			seconds := int64(ttl.Seconds())
			kv.TTLSeconds = &seconds
		}

		var size *int64
		if mem, err := memCmds[i].Result(); err == nil && mem > 0 {
			size = &mem
			kv.SizeBytes = &mem
		}

		tables = append(tables, schema.TableInfo{
			Name:      key,
			Type:      schema.TableTypeTable,
			SizeBytes: size,
			KeyValue:  kv,
		})
	}

	s.logger.Debug("Discovered keys",
		zap.String("pattern", s.config.KeyPattern),
		zap.Int("count", len(tables)))

	return tables, nil
}

// ListViews returns nothing; Redis has no views.
func (s *Introspector) ListViews(ctx context.Context, schemaName string) ([]schema.ViewInfo, error) {
	return nil, nil
}

// GetColumns returns nothing; Redis keys have no column structure.
func (s *Introspector) GetColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error) {
	return nil, nil
}

// GetIndexes returns nothing; Redis has no secondary indexes.
func (s *Introspector) GetIndexes(ctx context.Context, schemaName, tableName string) ([]schema.IndexInfo, error) {
	return nil, nil
}

// GetForeignKeys returns nothing; Redis has no referential constraints.
func (s *Introspector) GetForeignKeys(ctx context.Context, schemaName, tableName string) ([]schema.ForeignKeyInfo, error) {
	return nil, nil
}

// GetPrimaryKey returns nothing; the key itself is the identity.
func (s *Introspector) GetPrimaryKey(ctx context.Context, schemaName, tableName string) (*schema.PrimaryKeyInfo, error) {
	return nil, nil
}

// GetConstraints returns nothing; Redis has no constraints.
func (s *Introspector) GetConstraints(ctx context.Context, schemaName, tableName string) ([]schema.ConstraintInfo, error) {
	return nil, nil
}

// ListFunctions returns nothing; server-side scripts are not tracked.
func (s *Introspector) ListFunctions(ctx context.Context, schemaName string) ([]schema.FunctionInfo, error) {
	return nil, nil
}

// ListProcedures returns nothing.
func (s *Introspector) ListProcedures(ctx context.Context, schemaName string) ([]schema.ProcedureInfo, error) {
	return nil, nil
}

// ListTriggers returns nothing.
func (s *Introspector) ListTriggers(ctx context.Context, schemaName, tableName string) ([]schema.TriggerInfo, error) {
	return nil, nil
}

// ListSequences returns nothing.
func (s *Introspector) ListSequences(ctx context.Context, schemaName string) ([]schema.SequenceInfo, error) {
	return nil, nil
}

// ListTypes returns nothing.
func (s *Introspector) ListTypes(ctx context.Context, schemaName string) ([]schema.TypeInfo, error) {
	return nil, nil
}

// Ensure Introspector implements introspect.SchemaIntrospector at compile time.
var _ introspect.SchemaIntrospector = (*Introspector)(nil)
