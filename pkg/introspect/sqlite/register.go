package sqlite

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
)

func init() {
	introspect.Register(introspect.Registration{
		Info: introspect.IntrospectorInfo{
			Dialect:     "sqlite",
			DisplayName: "SQLite",
			Description: "SQLite 3 database files",
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
