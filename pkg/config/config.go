package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/skylinedb/schemadiff/pkg/compare"
	"github.com/skylinedb/schemadiff/pkg/report"
)

// DefaultConfigFile is read when Load is given no explicit path.
const DefaultConfigFile = "config.yaml"

// Config holds all configuration for schemadiff.
// Configuration can come from a YAML file or environment variables;
// environment variables override YAML values for fields that support
// both. Endpoint passwords must only come from environment variables.
type Config struct {
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// OutputFormat selects how comparison reports are rendered: text,
	// yaml or json.
	OutputFormat string `yaml:"output_format" env:"OUTPUT_FORMAT" env-default:"text"`

	// Source and Target are the two sides of a comparison. They are
	// configured in YAML or by command-line flags; only their passwords
	// read from the environment.
	Source EndpointConfig `yaml:"source"`
	Target EndpointConfig `yaml:"target"`

	SourcePassword string `yaml:"-" env:"SOURCE_DB_PASSWORD"` // Secret - not in YAML
	TargetPassword string `yaml:"-" env:"TARGET_DB_PASSWORD"` // Secret - not in YAML

	Compare CompareOptions `yaml:"compare"`

	Capture CaptureConfig `yaml:"capture"`

	Versions VersionsConfig `yaml:"versions"`
}

// EndpointConfig describes one side of a comparison: a saved snapshot
// file, or a live database reachable through a registered introspector.
// When SnapshotPath is set the connection fields are ignored.
type EndpointConfig struct {
	// SnapshotPath points at a snapshot file previously written by the
	// capture command.
	SnapshotPath string `yaml:"snapshot_path"`

	// Dialect is the registered introspector name: postgresql, mysql,
	// sqlite, mssql or redis.
	Dialect    string `yaml:"dialect"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"-"` // Secret - injected from the environment by Load
	Database   string `yaml:"database"`
	SchemaName string `yaml:"schema"`
	SSLMode    string `yaml:"ssl_mode"`

	// Path is the database file for file-backed engines (sqlite).
	Path string `yaml:"path"`

	// Options carries dialect-specific extras passed through to the
	// introspector factory, such as mssql encrypt or the redis db index.
	Options map[string]any `yaml:"options"`
}

// CompareOptions selects which schema aspects are compared. Every
// category is on unless skipped, matching the engine defaults; the skip
// polarity keeps the zero value meaningful for YAML and env alike.
type CompareOptions struct {
	SkipComments      bool `yaml:"skip_comments" env:"COMPARE_SKIP_COMMENTS" env-default:"false"`
	SkipIndexes       bool `yaml:"skip_indexes" env:"COMPARE_SKIP_INDEXES" env-default:"false"`
	SkipForeignKeys   bool `yaml:"skip_foreign_keys" env:"COMPARE_SKIP_FOREIGN_KEYS" env-default:"false"`
	SkipConstraints   bool `yaml:"skip_constraints" env:"COMPARE_SKIP_CONSTRAINTS" env-default:"false"`
	SkipTriggers      bool `yaml:"skip_triggers" env:"COMPARE_SKIP_TRIGGERS" env-default:"false"`
	IgnoreColumnOrder bool `yaml:"ignore_column_order" env:"COMPARE_IGNORE_COLUMN_ORDER" env-default:"false"`
	CaseInsensitive   bool `yaml:"case_insensitive" env:"COMPARE_CASE_INSENSITIVE" env-default:"false"`
}

// CaptureConfig tunes live-schema capture.
type CaptureConfig struct {
	// Concurrency is the number of tables detailed in parallel.
	Concurrency int `yaml:"concurrency" env:"CAPTURE_CONCURRENCY" env-default:"4"`
}

// VersionsConfig locates the local version history store.
type VersionsConfig struct {
	Path string `yaml:"path" env:"VERSIONS_DB_PATH" env-default:"schemadiff_versions.db"`
}

// Load reads configuration from a YAML file with environment variable
// overrides. An empty path reads config.yaml when it exists and falls
// back to environment and defaults alone, so the CLI runs without a
// config file. A non-empty path must exist. The version parameter is
// injected at build time and set on the returned Config. Secrets
// (SOURCE_DB_PASSWORD, TARGET_DB_PASSWORD) come from environment
// variables only (yaml:"-" fields).
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.Source.Password = cfg.SourcePassword
	cfg.Target.Password = cfg.TargetPassword

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every command depends on. Endpoint
// completeness is checked per side by the commands that connect.
func (c *Config) Validate() error {
	if _, err := report.ParseFormat(c.OutputFormat); err != nil {
		return fmt.Errorf("invalid output_format: %w", err)
	}
	return nil
}

// CompareConfig converts the options into the engine's configuration.
func (o CompareOptions) CompareConfig() compare.CompareConfig {
	cfg := compare.NewCompareConfig()
	if o.SkipComments {
		cfg = cfg.WithoutComments()
	}
	if o.SkipIndexes {
		cfg = cfg.WithoutIndexes()
	}
	if o.SkipForeignKeys {
		cfg = cfg.WithoutForeignKeys()
	}
	if o.SkipConstraints {
		cfg = cfg.WithoutConstraints()
	}
	if o.SkipTriggers {
		cfg = cfg.WithoutTriggers()
	}
	if o.IgnoreColumnOrder {
		cfg = cfg.IgnoringColumnOrder()
	}
	if o.CaseInsensitive {
		cfg = cfg.CaseInsensitive()
	}
	return cfg
}

// IsSnapshot reports whether the endpoint reads from a snapshot file
// instead of a live database.
func (e *EndpointConfig) IsSnapshot() bool {
	return e.SnapshotPath != ""
}

// Validate checks that the endpoint names either a snapshot file or a
// dialect to connect with. Connection details beyond the dialect are
// validated by the dialect's own config when connecting.
func (e *EndpointConfig) Validate() error {
	if e.IsSnapshot() || e.Dialect != "" {
		return nil
	}
	return fmt.Errorf("endpoint needs a snapshot_path or a dialect")
}

// ConfigMap renders the endpoint as the generic config map the dialect
// factories consume. Dialect-specific extras from Options are merged in
// without overriding the explicit fields. Localhost hosts are rewritten
// for containerized runs, see ResolveHostForDocker.
func (e *EndpointConfig) ConfigMap() map[string]any {
	m := make(map[string]any, len(e.Options)+7)
	for k, v := range e.Options {
		m[k] = v
	}
	if e.Host != "" {
		m["host"] = ResolveHostForDocker(e.Host)
	}
	if e.Port != 0 {
		m["port"] = e.Port
	}
	if e.User != "" {
		m["user"] = e.User
	}
	if e.Password != "" {
		m["password"] = e.Password
	}
	if e.Database != "" {
		m["database"] = e.Database
	}
	if e.SSLMode != "" {
		m["ssl_mode"] = e.SSLMode
	}
	if e.Path != "" {
		m["path"] = e.Path
	}
	return m
}
