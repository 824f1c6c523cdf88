package redis

import "fmt"

// Config contains Redis-specific connection options.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	// KeyPattern limits which keys are listed; defaults to every key.
	KeyPattern string
}

// DefaultPort returns the default Redis port.
func DefaultPort() int {
	return 6379
}

// DefaultKeyPattern returns the default key listing pattern.
func DefaultKeyPattern() string {
	return "*"
}

// FromMap creates a Config from a generic config map.
func FromMap(config map[string]any) (*Config, error) {
	cfg := &Config{
		Port:       DefaultPort(),
		KeyPattern: DefaultKeyPattern(),
	}

	if host, ok := config["host"].(string); ok {
		cfg.Host = host
	} else {
		return nil, fmt.Errorf("host is required")
	}

	if port, ok := config["port"].(float64); ok { // JSON numbers are float64
		cfg.Port = int(port)
	} else if port, ok := config["port"].(int); ok {
		cfg.Port = port
	}

	if password, ok := config["password"].(string); ok {
		cfg.Password = password
	}

	if db, ok := config["db"].(float64); ok {
		cfg.DB = int(db)
	} else if db, ok := config["db"].(int); ok {
		cfg.DB = db
	} else if database, ok := config["database"].(float64); ok {
		cfg.DB = int(database)
	} else if database, ok := config["database"].(int); ok {
		cfg.DB = database
	}

	if pattern, ok := config["key_pattern"].(string); ok && pattern != "" {
		cfg.KeyPattern = pattern
	}

	return cfg, nil
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
