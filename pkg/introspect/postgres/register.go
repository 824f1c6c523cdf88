package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
)

func init() {
	introspect.Register(introspect.Registration{
		Info: introspect.IntrospectorInfo{
			Dialect:     "postgresql",
			DisplayName: "PostgreSQL",
			Description: "PostgreSQL 12+, Aurora PostgreSQL, Supabase",
		},
		Factory: func(ctx context.Context, config map[string]any, logger *zap.Logger) (introspect.SchemaIntrospector, error) {
			cfg, err := FromMap(config)
			if err != nil {
				return nil, err
			}
			return NewIntrospector(ctx, cfg, logger)
		},
	})
}
