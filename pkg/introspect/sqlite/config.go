package sqlite

import "fmt"

// Config contains SQLite-specific connection options.
type Config struct {
	// Path is the database file path, or ":memory:" for an in-memory
	// database.
	Path string
}

// FromMap creates a Config from a generic config map.
func FromMap(config map[string]any) (*Config, error) {
	cfg := &Config{}

	if path, ok := config["path"].(string); ok {
		cfg.Path = path
	} else if file, ok := config["file"].(string); ok {
		cfg.Path = file
	} else if database, ok := config["database"].(string); ok {
		cfg.Path = database
	} else {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	return cfg, nil
}
