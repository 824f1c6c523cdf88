package postgres

import (
	"strings"
	"testing"
)

func TestFromMap_ValidConfig(t *testing.T) {
	config := map[string]any{
		"host":     "localhost",
		"port":     float64(5432), // JSON numbers are float64
		"user":     "testuser",
		"password": "testpass",
		"database": "testdb",
		"ssl_mode": "disable",
	}

	cfg, err := FromMap(config)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("expected host 'localhost', got '%s'", cfg.Host)
	}
	if cfg.Port != 5432 {
		t.Errorf("expected port 5432, got %d", cfg.Port)
	}
	if cfg.User != "testuser" {
		t.Errorf("expected user 'testuser', got '%s'", cfg.User)
	}
	if cfg.Password != "testpass" {
		t.Errorf("expected password 'testpass', got '%s'", cfg.Password)
	}
	if cfg.Database != "testdb" {
		t.Errorf("expected database 'testdb', got '%s'", cfg.Database)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("expected ssl_mode 'disable', got '%s'", cfg.SSLMode)
	}
}

func TestFromMap_IntPort(t *testing.T) {
	config := map[string]any{
		"host":     "localhost",
		"port":     5433, // int instead of float64
		"user":     "testuser",
		"database": "testdb",
	}

	cfg, err := FromMap(config)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Port != 5433 {
		t.Errorf("expected port 5433, got %d", cfg.Port)
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
	if cfg.SSLMode != DefaultSSLMode() {
		t.Errorf("expected default ssl_mode '%s', got '%s'", DefaultSSLMode(), cfg.SSLMode)
	}
}

func TestFromMap_LegacyNameField(t *testing.T) {
	config := map[string]any{
		"host": "localhost",
		"user": "testuser",
		"name": "legacydb",
	}

	cfg, err := FromMap(config)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Database != "legacydb" {
		t.Errorf("expected database 'legacydb', got '%s'", cfg.Database)
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

func TestBuildConnectionString_EscapesSpecialCharacters(t *testing.T) {
	cfg := &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "user@corp",
		Password: "p@ss/word#1",
		Database: "testdb",
		SSLMode:  "disable",
	}

	connStr := buildConnectionString(cfg)

	if strings.Contains(connStr, "p@ss/word#1") {
		t.Errorf("password not escaped: %s", connStr)
	}
	if !strings.HasPrefix(connStr, "postgresql://") {
		t.Errorf("expected postgresql:// prefix, got: %s", connStr)
	}
	if !strings.HasSuffix(connStr, "sslmode=disable") {
		t.Errorf("expected sslmode=disable suffix, got: %s", connStr)
	}
}
