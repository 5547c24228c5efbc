// Package config provides configuration management for maikedb.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > maikedb.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in maikedb.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Environment Variables
//
// Use MAIKEDB_ prefix with underscores for nesting:
//
//	MAIKEDB_PRIMARY_HOST=localhost
//	MAIKEDB_PRIMARY_PORT=5432
//	MAIKEDB_LEGACY_DATABASE=make
//	MAIKEDB_LEGACY_FALLBACK=true
//	MAIKEDB_LOG_LEVEL=info
//
// The legacy-fallback flag is read once at process start; flipping it
// requires a restart.
package config

import (
	"runtime"
	"time"
)

// Config represents the complete maikedb configuration.
type Config struct {
	// Primary is the canonical mAIke database. The only store the
	// resolver and healer write to.
	Primary DatabaseConfig `mapstructure:"primary" yaml:"primary"`

	// Legacy is the old Make database, consulted read-only when a
	// process is missing from Primary.
	Legacy DatabaseConfig `mapstructure:"legacy" yaml:"legacy"`

	// Declarations is the customs-declaration source database holding
	// DI/DUIMP detail tables (freight, cargo values, calculated taxes).
	Declarations DatabaseConfig `mapstructure:"declarations" yaml:"declarations"`

	// LegacyFallback permits querying Legacy when Primary lacks a
	// process. Read once at startup.
	LegacyFallback bool `mapstructure:"legacy_fallback" yaml:"legacy_fallback"`

	// Kanban configures the operational pipeline-tool API.
	Kanban KanbanConfig `mapstructure:"kanban" yaml:"kanban"`

	// Declaration configures the government declaration API.
	Declaration DeclarationAPIConfig `mapstructure:"declaration" yaml:"declaration"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// QueryTimeoutSec bounds every single query against an external
	// source. A timed-out source counts as "not found" for that source.
	QueryTimeoutSec int `mapstructure:"query_timeout_sec" yaml:"query_timeout_sec"`

	// JobsNumber is the number of concurrent workers for the backfill
	// command. Per-request resolution remains strictly sequential.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters for one of
// the named logical databases.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// KanbanConfig contains settings for the pipeline-tool API client.
type KanbanConfig struct {
	// Endpoints is the ordered list of candidate base URLs (office
	// network, VPN, DNS alias). The first one that answers is adopted
	// for the rest of the session.
	Endpoints []string `mapstructure:"endpoints" yaml:"endpoints"`

	// TimeoutSec bounds each HTTP call to the pipeline tool.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DeclarationAPIConfig contains settings for the government
// declaration API client.
type DeclarationAPIConfig struct {
	// BaseURL of the declaration lookup service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds each HTTP call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format: json or text.
	Format string `mapstructure:"format" yaml:"format"`

	// Destination: file, stdout or stderr.
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// QueryTimeout returns the per-source query timeout as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSec) * time.Second
}

// New creates a Config with default values. The result is always valid.
func New() *Config {
	return &Config{
		Primary: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "maike_assistente",
			SSLMode:  "disable",
		},
		Legacy: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "make",
			SSLMode:  "disable",
		},
		Declarations: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "declarations",
			SSLMode:  "disable",
		},
		LegacyFallback: true,
		Kanban: KanbanConfig{
			Endpoints:  []string{"http://kanban.local:8080"},
			TimeoutSec: 5,
		},
		Declaration: DeclarationAPIConfig{
			BaseURL:    "https://portalunico.siscomex.gov.br",
			TimeoutSec: 10,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "text",
			Destination: "stderr",
		},
		QueryTimeoutSec: 5,
		JobsNumber:      runtime.NumCPU(),
	}
}
