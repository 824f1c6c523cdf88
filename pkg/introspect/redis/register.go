package redis

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
)

func init() {
	introspect.Register(introspect.Registration{
		Info: introspect.IntrospectorInfo{
			Dialect:     "redis",
			DisplayName: "Redis",
			Description: "Redis 6+, keys reported as table entries",
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
