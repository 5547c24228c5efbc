package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptPrimaryHost sets the primary database hostname or IP address.
func OptPrimaryHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Primary Host", s) {
			c.Primary.Host = s
		}
	}
}

// OptPrimaryPort sets the primary database port number.
func OptPrimaryPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Primary Port", i) {
			c.Primary.Port = i
		}
	}
}

// OptPrimaryUser sets the primary database username.
func OptPrimaryUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Primary User", s) {
			c.Primary.User = s
		}
	}
}

// OptPrimaryPassword sets the primary database password.
func OptPrimaryPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Primary Password", s) {
			c.Primary.Password = s
		}
	}
}

// OptPrimaryDatabase sets the primary database name.
func OptPrimaryDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Primary Database", s) {
			c.Primary.Database = s
		}
	}
}

// OptPrimarySSLMode sets the primary database SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptPrimarySSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Primary.SSLMode", s) {
			c.Primary.SSLMode = s
		}
	}
}

// OptLegacyHost sets the legacy database hostname or IP address.
func OptLegacyHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Legacy Host", s) {
			c.Legacy.Host = s
		}
	}
}

// OptLegacyPort sets the legacy database port number.
func OptLegacyPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Legacy Port", i) {
			c.Legacy.Port = i
		}
	}
}

// OptLegacyUser sets the legacy database username.
func OptLegacyUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Legacy User", s) {
			c.Legacy.User = s
		}
	}
}

// OptLegacyPassword sets the legacy database password.
func OptLegacyPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Legacy Password", s) {
			c.Legacy.Password = s
		}
	}
}

// OptLegacyDatabase sets the legacy database name.
func OptLegacyDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Legacy Database", s) {
			c.Legacy.Database = s
		}
	}
}

// OptLegacySSLMode sets the legacy database SSL connection mode.
func OptLegacySSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Legacy.SSLMode", s) {
			c.Legacy.SSLMode = s
		}
	}
}

// OptDeclarationsDatabase sets the declarations database name.
func OptDeclarationsDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Declarations Database", s) {
			c.Declarations.Database = s
		}
	}
}

// OptDeclarationsHost sets the declarations database hostname.
func OptDeclarationsHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Declarations Host", s) {
			c.Declarations.Host = s
		}
	}
}

// OptLegacyFallback enables or disables the legacy fallback path.
// The flag is read once at process start.
func OptLegacyFallback(b bool) Option {
	return func(c *Config) {
		c.LegacyFallback = b
	}
}

// OptKanbanEndpoints sets the ordered candidate base URLs for the
// pipeline-tool API.
func OptKanbanEndpoints(ss []string) Option {
	var clean []string
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			clean = append(clean, s)
		}
	}
	return func(c *Config) {
		if len(clean) > 0 {
			c.Kanban.Endpoints = clean
		}
	}
}

// OptKanbanTimeoutSec sets the pipeline-tool API timeout in seconds.
func OptKanbanTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Kanban Timeout", i) {
			c.Kanban.TimeoutSec = i
		}
	}
}

// OptDeclarationBaseURL sets the declaration API base URL.
func OptDeclarationBaseURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Declaration Base URL", s) {
			c.Declaration.BaseURL = s
		}
	}
}

// OptDeclarationTimeoutSec sets the declaration API timeout in seconds.
func OptDeclarationTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Declaration Timeout", i) {
			c.Declaration.TimeoutSec = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid levels: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the logging output format.
// Valid formats: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where log output goes.
// Valid destinations: "file", "stdout", "stderr".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptQueryTimeoutSec sets the per-source query timeout in seconds.
func OptQueryTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Query Timeout", i) {
			c.QueryTimeoutSec = i
		}
	}
}

// OptJobsNumber sets the number of concurrent backfill workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache and logs.
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
