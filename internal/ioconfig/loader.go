// Package ioconfig loads configuration from files, environment and
// flags. This is an impure package that handles file system
// operations.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadResult contains the loaded configuration and metadata about its
// source.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // config file used, empty when running on defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration and returns a validated Config with source
// info. Precedence: flags (bound later) > MAIKEDB_* env vars > yaml
// file > built-in defaults. An empty configPath searches the default
// location ~/.config/maikedb/maikedb.yaml.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MAIKEDB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults are registered before reading so AutomaticEnv knows
	// every key to check.
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if path := defaultConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
		}
	}

	configFileRead := false
	usedConfigPath := ""

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
		} else if configPath != "" || v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileRead = true
		usedConfigPath = v.ConfigFileUsed()
	}

	cfg := config.New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		cfg.HomeDir = home
	}

	// Re-apply through the option layer so out-of-range values fall
	// back to defaults with a warning, same as flag-driven updates.
	// HomeDir is runtime-only and carried over separately.
	validated := config.New()
	validated.Update(append(cfg.ToOptions(), config.OptHomeDir(cfg.HomeDir)))

	source := "defaults"
	if configFileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     validated,
		SourcePath: usedConfigPath,
		Source:     source,
	}, nil
}

func setDefaults(v *viper.Viper) {
	d := config.New()

	v.SetDefault("primary.host", d.Primary.Host)
	v.SetDefault("primary.port", d.Primary.Port)
	v.SetDefault("primary.user", d.Primary.User)
	v.SetDefault("primary.password", d.Primary.Password)
	v.SetDefault("primary.database", d.Primary.Database)
	v.SetDefault("primary.ssl_mode", d.Primary.SSLMode)

	v.SetDefault("legacy.host", d.Legacy.Host)
	v.SetDefault("legacy.port", d.Legacy.Port)
	v.SetDefault("legacy.user", d.Legacy.User)
	v.SetDefault("legacy.password", d.Legacy.Password)
	v.SetDefault("legacy.database", d.Legacy.Database)
	v.SetDefault("legacy.ssl_mode", d.Legacy.SSLMode)

	v.SetDefault("declarations.host", d.Declarations.Host)
	v.SetDefault("declarations.port", d.Declarations.Port)
	v.SetDefault("declarations.user", d.Declarations.User)
	v.SetDefault("declarations.password", d.Declarations.Password)
	v.SetDefault("declarations.database", d.Declarations.Database)
	v.SetDefault("declarations.ssl_mode", d.Declarations.SSLMode)

	v.SetDefault("legacy_fallback", d.LegacyFallback)
	v.SetDefault("kanban.endpoints", d.Kanban.Endpoints)
	v.SetDefault("kanban.timeout_sec", d.Kanban.TimeoutSec)
	v.SetDefault("declaration.base_url", d.Declaration.BaseURL)
	v.SetDefault("declaration.timeout_sec", d.Declaration.TimeoutSec)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.destination", d.Log.Destination)

	v.SetDefault("query_timeout_sec", d.QueryTimeoutSec)
	v.SetDefault("jobs_number", d.JobsNumber)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return config.ConfigFilePath(home)
}

// hasEnvVars checks if any MAIKEDB_* environment variables are set.
func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MAIKEDB_") {
			return true
		}
	}
	return false
}

// BindFlags overrides config fields from set command flags. CLI flags
// take precedence over every other source.
func BindFlags(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var opts []config.Option
	if v.IsSet("primary-host") {
		opts = append(opts, config.OptPrimaryHost(v.GetString("primary-host")))
	}
	if v.IsSet("primary-database") {
		opts = append(opts,
			config.OptPrimaryDatabase(v.GetString("primary-database")))
	}
	if v.IsSet("legacy-fallback") {
		opts = append(opts,
			config.OptLegacyFallback(v.GetBool("legacy-fallback")))
	}
	if v.IsSet("jobs") {
		opts = append(opts, config.OptJobsNumber(v.GetInt("jobs")))
	}
	if v.IsSet("log-level") {
		opts = append(opts, config.OptLogLevel(v.GetString("log-level")))
	}

	cfg.Update(opts)
	return cfg, nil
}
