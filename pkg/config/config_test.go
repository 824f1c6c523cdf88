package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp moves the test into a fresh temp directory so Load's default
// config.yaml lookup cannot pick up a stray file.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
	return tmpDir
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	chdirTemp(t)

	// Clear env vars that might interfere with defaults
	os.Unsetenv("ENVIRONMENT")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("OUTPUT_FORMAT")
	os.Unsetenv("CAPTURE_CONCURRENCY")
	os.Unsetenv("VERSIONS_DB_PATH")

	cfg, err := Load("", "test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.Env != "local" {
		t.Errorf("expected Env=local (default), got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info (default), got %s", cfg.LogLevel)
	}
	if cfg.OutputFormat != "text" {
		t.Errorf("expected OutputFormat=text (default), got %s", cfg.OutputFormat)
	}
	if cfg.Capture.Concurrency != 4 {
		t.Errorf("expected Capture.Concurrency=4 (default), got %d", cfg.Capture.Concurrency)
	}
	if cfg.Versions.Path != "schemadiff_versions.db" {
		t.Errorf("expected default versions path, got %s", cfg.Versions.Path)
	}
	if cfg.Compare.SkipIndexes || cfg.Compare.CaseInsensitive {
		t.Errorf("expected compare toggles off by default, got %+v", cfg.Compare)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := chdirTemp(t)
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
output_format: "yaml"
log_level: "debug"
source:
  dialect: "postgresql"
  host: "db.example.com"
  port: 5432
  user: "reader"
  database: "appdb"
  schema: "public"
target:
  snapshot_path: "staging.snapshot.yaml"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("OUTPUT_FORMAT", "json")
	t.Setenv("SOURCE_DB_PASSWORD", "s3cret")
	os.Unsetenv("TARGET_DB_PASSWORD")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load("", "test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OutputFormat != "json" {
		t.Errorf("expected OutputFormat=json (from env), got %s", cfg.OutputFormat)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug (from yaml), got %s", cfg.LogLevel)
	}
	if cfg.Source.Dialect != "postgresql" {
		t.Errorf("expected Source.Dialect=postgresql (from yaml), got %s", cfg.Source.Dialect)
	}
	if cfg.Source.Password != "s3cret" {
		t.Errorf("expected source password injected from env, got %q", cfg.Source.Password)
	}
	if cfg.Target.Password != "" {
		t.Errorf("expected empty target password, got %q", cfg.Target.Password)
	}
	if !cfg.Target.IsSnapshot() {
		t.Error("expected target endpoint to be a snapshot")
	}
}

func TestLoad_CompareTogglesFromYAML(t *testing.T) {
	tmpDir := chdirTemp(t)
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
compare:
  skip_indexes: true
  skip_triggers: true
  ignore_column_order: true
  case_insensitive: true
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	os.Unsetenv("OUTPUT_FORMAT")
	os.Unsetenv("COMPARE_SKIP_COMMENTS")
	os.Unsetenv("COMPARE_SKIP_FOREIGN_KEYS")

	cfg, err := Load("", "test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	engineCfg := cfg.Compare.CompareConfig()
	if engineCfg.CompareIndexes {
		t.Error("expected index comparison disabled")
	}
	if engineCfg.CompareTriggers {
		t.Error("expected trigger comparison disabled")
	}
	if !engineCfg.IgnoreColumnOrder {
		t.Error("expected column order ignored")
	}
	if engineCfg.CaseSensitive {
		t.Error("expected case insensitive matching")
	}
	if !engineCfg.CompareComments || !engineCfg.CompareForeignKeys || !engineCfg.CompareConstraints {
		t.Errorf("expected untouched categories to stay enabled, got %+v", engineCfg)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	tmpDir := chdirTemp(t)
	configPath := filepath.Join(tmpDir, "custom.yaml")

	yamlContent := `
output_format: "yaml"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	os.Unsetenv("OUTPUT_FORMAT")

	cfg, err := Load(configPath, "test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.OutputFormat != "yaml" {
		t.Errorf("expected OutputFormat=yaml, got %s", cfg.OutputFormat)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load("does-not-exist.yaml", "test-version")
	if err == nil {
		t.Error("expected error for an explicit config path that does not exist")
	}
}

func TestLoad_InvalidOutputFormat(t *testing.T) {
	chdirTemp(t)

	t.Setenv("OUTPUT_FORMAT", "csv")

	_, err := Load("", "test-version")
	if err == nil {
		t.Fatal("expected error for invalid output format")
	}
	if !strings.Contains(err.Error(), "output_format") {
		t.Errorf("expected error to mention output_format, got: %v", err)
	}
}

func TestCompareOptions_Defaults(t *testing.T) {
	engineCfg := CompareOptions{}.CompareConfig()

	if !engineCfg.CompareComments || !engineCfg.CompareIndexes || !engineCfg.CompareForeignKeys ||
		!engineCfg.CompareConstraints || !engineCfg.CompareTriggers {
		t.Errorf("expected every category enabled by default, got %+v", engineCfg)
	}
	if engineCfg.IgnoreColumnOrder {
		t.Error("expected column order significant by default")
	}
	if !engineCfg.CaseSensitive {
		t.Error("expected case sensitive matching by default")
	}
}

func TestEndpointConfig_Validate(t *testing.T) {
	snapshot := EndpointConfig{SnapshotPath: "prod.snapshot.yaml"}
	if err := snapshot.Validate(); err != nil {
		t.Errorf("snapshot endpoint should validate, got: %v", err)
	}

	live := EndpointConfig{Dialect: "mysql", Host: "localhost"}
	if err := live.Validate(); err != nil {
		t.Errorf("live endpoint should validate, got: %v", err)
	}

	empty := EndpointConfig{}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for endpoint with neither snapshot nor dialect")
	}
}

func TestEndpointConfig_ConfigMap(t *testing.T) {
	endpoint := EndpointConfig{
		Dialect:  "postgresql",
		Host:     "db.example.com",
		Port:     5433,
		User:     "reader",
		Password: "s3cret",
		Database: "appdb",
		SSLMode:  "require",
		Options:  map[string]any{"connection_timeout": 10, "host": "ignored"},
	}

	m := endpoint.ConfigMap()

	if m["host"] != "db.example.com" {
		t.Errorf("expected explicit host to win over options, got %v", m["host"])
	}
	if m["port"] != 5433 {
		t.Errorf("expected port=5433, got %v", m["port"])
	}
	if m["password"] != "s3cret" {
		t.Errorf("expected password in map, got %v", m["password"])
	}
	if m["ssl_mode"] != "require" {
		t.Errorf("expected ssl_mode=require, got %v", m["ssl_mode"])
	}
	if m["connection_timeout"] != 10 {
		t.Errorf("expected options passed through, got %v", m["connection_timeout"])
	}

	fileBacked := EndpointConfig{Dialect: "sqlite", Path: "app.db"}
	m = fileBacked.ConfigMap()
	if m["path"] != "app.db" {
		t.Errorf("expected path=app.db, got %v", m["path"])
	}
	if _, ok := m["host"]; ok {
		t.Error("expected empty host omitted from map")
	}
}
