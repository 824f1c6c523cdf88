package redis

import "testing"

func TestFromMap_ValidConfig(t *testing.T) {
	config := map[string]any{
		"host":        "localhost",
		"port":        float64(6380), // JSON numbers are float64
		"password":    "secret",
		"db":          float64(2),
		"key_pattern": "sessions:*",
	}

	cfg, err := FromMap(config)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("expected host 'localhost', got '%s'", cfg.Host)
	}
	if cfg.Port != 6380 {
		t.Errorf("expected port 6380, got %d", cfg.Port)
	}
	if cfg.DB != 2 {
		t.Errorf("expected db 2, got %d", cfg.DB)
	}
	if cfg.KeyPattern != "sessions:*" {
		t.Errorf("expected key_pattern 'sessions:*', got '%s'", cfg.KeyPattern)
	}
}

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := FromMap(map[string]any{"host": "localhost"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Port != DefaultPort() {
		t.Errorf("expected default port %d, got %d", DefaultPort(), cfg.Port)
	}
	if cfg.DB != 0 {
		t.Errorf("expected db 0, got %d", cfg.DB)
	}
	if cfg.KeyPattern != DefaultKeyPattern() {
		t.Errorf("expected default key pattern '%s', got '%s'", DefaultKeyPattern(), cfg.KeyPattern)
	}
}

func TestFromMap_DatabaseAlias(t *testing.T) {
	cfg, err := FromMap(map[string]any{"host": "localhost", "database": float64(5)})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.DB != 5 {
		t.Errorf("expected db 5, got %d", cfg.DB)
	}
}

func TestFromMap_MissingHost(t *testing.T) {
	if _, err := FromMap(map[string]any{}); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "cache.internal", Port: 6379}
	if got := cfg.addr(); got != "cache.internal:6379" {
		t.Errorf("expected 'cache.internal:6379', got '%s'", got)
	}
}
