package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for maikedb.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping maikedb.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option

	res = appendDBOptions(res, &c.Primary, primaryOpts)
	res = appendDBOptions(res, &c.Legacy, legacyOpts)

	if c.Declarations.Host != "" {
		res = append(res, OptDeclarationsHost(c.Declarations.Host))
	}
	if c.Declarations.Database != "" {
		res = append(res, OptDeclarationsDatabase(c.Declarations.Database))
	}

	res = append(res, OptLegacyFallback(c.LegacyFallback))

	if len(c.Kanban.Endpoints) > 0 {
		res = append(res, OptKanbanEndpoints(c.Kanban.Endpoints))
	}
	if c.Kanban.TimeoutSec > 0 {
		res = append(res, OptKanbanTimeoutSec(c.Kanban.TimeoutSec))
	}
	if c.Declaration.BaseURL != "" {
		res = append(res, OptDeclarationBaseURL(c.Declaration.BaseURL))
	}
	if c.Declaration.TimeoutSec > 0 {
		res = append(res, OptDeclarationTimeoutSec(c.Declaration.TimeoutSec))
	}

	if c.Log.Format != "" {
		res = append(res, OptLogFormat(c.Log.Format))
	}
	if c.Log.Level != "" {
		res = append(res, OptLogLevel(c.Log.Level))
	}
	if c.Log.Destination != "" {
		res = append(res, OptLogDestination(c.Log.Destination))
	}

	if c.QueryTimeoutSec > 0 {
		res = append(res, OptQueryTimeoutSec(c.QueryTimeoutSec))
	}
	if c.JobsNumber > 0 {
		res = append(res, OptJobsNumber(c.JobsNumber))
	}
	return res
}

type dbOptSet struct {
	host, user, password, database, sslMode func(string) Option
	port                                    func(int) Option
}

var primaryOpts = dbOptSet{
	host: OptPrimaryHost, user: OptPrimaryUser,
	password: OptPrimaryPassword, database: OptPrimaryDatabase,
	sslMode: OptPrimarySSLMode, port: OptPrimaryPort,
}

var legacyOpts = dbOptSet{
	host: OptLegacyHost, user: OptLegacyUser,
	password: OptLegacyPassword, database: OptLegacyDatabase,
	sslMode: OptLegacySSLMode, port: OptLegacyPort,
}

func appendDBOptions(
	res []Option,
	db *DatabaseConfig,
	set dbOptSet,
) []Option {
	if db.Host != "" {
		res = append(res, set.host(db.Host))
	}
	if db.Port > 0 {
		res = append(res, set.port(db.Port))
	}
	if db.User != "" {
		res = append(res, set.user(db.User))
	}
	if db.Password != "" {
		res = append(res, set.password(db.Password))
	}
	if db.Database != "" {
		res = append(res, set.database(db.Database))
	}
	if db.SSLMode != "" {
		res = append(res, set.sslMode(db.SSLMode))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Primary.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Legacy.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stdout": s, "stderr": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		[]string{name, val, strings.Join(lines, "\n")},
	)
	return false
}
