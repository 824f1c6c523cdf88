package mssql

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylinedb/schemadiff/pkg/introspect"
)

func init() {
	introspect.Register(introspect.Registration{
		Info: introspect.IntrospectorInfo{
			Dialect:     "mssql",
			DisplayName: "SQL Server",
			Description: "SQL Server 2017+, Azure SQL Database",
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
