package mysql

import (
	"strings"
	"testing"
)

func TestFromMap_ValidConfig(t *testing.T) {
	config := map[string]any{
		"host":     "localhost",
		"port":     float64(3306), // JSON numbers are float64
		"user":     "testuser",
		"password": "testpass",
		"database": "testdb",
	}

	cfg, err := FromMap(config)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("expected host 'localhost', got '%s'", cfg.Host)
	}
	if cfg.Port != 3306 {
		t.Errorf("expected port 3306, got %d", cfg.Port)
	}
	if cfg.User != "testuser" {
		t.Errorf("expected user 'testuser', got '%s'", cfg.User)
	}
	if cfg.Database != "testdb" {
		t.Errorf("expected database 'testdb', got '%s'", cfg.Database)
	}
}

func TestFromMap_Defaults(t *testing.T) {
	config := map[string]any{
		"host":     "localhost",
		"user":     "testuser",
		"database": "testdb",
	}

	cfg, err := FromMap(config)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Port != DefaultPort() {
		t.Errorf("expected default port %d, got %d", DefaultPort(), cfg.Port)
	}
}

func TestFromMap_MissingRequired(t *testing.T) {
	cases := []struct {
		name   string
		config map[string]any
	}{
		{"missing host", map[string]any{"user": "u", "database": "d"}},
		{"missing user", map[string]any{"host": "h", "database": "d"}},
		{"missing database", map[string]any{"host": "h", "user": "u"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromMap(tc.config); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBuildDSN(t *testing.T) {
	cfg := &Config{
		Host:     "db.internal",
		Port:     3307,
		User:     "app",
		Password: "secret",
		Database: "orders",
	}

	dsn := buildDSN(cfg)

	if !strings.Contains(dsn, "tcp(db.internal:3307)") {
		t.Errorf("expected tcp address in DSN, got: %s", dsn)
	}
	if !strings.Contains(dsn, "/orders") {
		t.Errorf("expected database in DSN, got: %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("expected parseTime=true in DSN, got: %s", dsn)
	}
}
