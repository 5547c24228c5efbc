package config_test

import (
	"path/filepath"
	"testing"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "maikedb"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "maikedb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "maikedb", "logs"),
		},
		{
			msg: "cache file",
			fn:  config.CacheFilePath,
			res: filepath.Join(tempHome, ".cache", "maikedb", "processes.db"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Primary.Host)
		assert.Equal(t, 5432, cfg.Primary.Port)
		assert.Equal(t, "maike_assistente", cfg.Primary.Database)
		assert.Equal(t, "make", cfg.Legacy.Database)
		assert.Equal(t, "disable", cfg.Primary.SSLMode)

		assert.True(t, cfg.LegacyFallback)
		assert.NotEmpty(t, cfg.Kanban.Endpoints)
		assert.Equal(t, 5, cfg.QueryTimeoutSec)
		assert.Greater(t, cfg.JobsNumber, 0)

		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		msg    string
		opts   []config.Option
		verify func(t *testing.T, cfg *config.Config)
	}{
		{
			msg: "sets primary database fields",
			opts: []config.Option{
				config.OptPrimaryHost("db.office.lan"),
				config.OptPrimaryPort(5433),
				config.OptPrimaryDatabase("maike"),
			},
			verify: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "db.office.lan", cfg.Primary.Host)
				assert.Equal(t, 5433, cfg.Primary.Port)
				assert.Equal(t, "maike", cfg.Primary.Database)
			},
		},
		{
			msg: "disables legacy fallback",
			opts: []config.Option{
				config.OptLegacyFallback(false),
			},
			verify: func(t *testing.T, cfg *config.Config) {
				assert.False(t, cfg.LegacyFallback)
			},
		},
		{
			msg: "rejects empty host, keeps default",
			opts: []config.Option{
				config.OptPrimaryHost("  "),
			},
			verify: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "localhost", cfg.Primary.Host)
			},
		},
		{
			msg: "rejects invalid log level, keeps default",
			opts: []config.Option{
				config.OptLogLevel("verbose"),
			},
			verify: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "info", cfg.Log.Level)
			},
		},
		{
			msg: "sets kanban endpoints, dropping blanks",
			opts: []config.Option{
				config.OptKanbanEndpoints(
					[]string{"http://10.0.0.5:8080", " ", "http://kanban.vpn:8080"},
				),
			},
			verify: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t,
					[]string{"http://10.0.0.5:8080", "http://kanban.vpn:8080"},
					cfg.Kanban.Endpoints,
				)
			},
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			cfg := config.New()
			cfg.Update(v.opts)
			v.verify(t, cfg)
		})
	}
}

func TestToOptionsRoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptPrimaryHost("10.0.0.9"),
		config.OptLegacyDatabase("make_old"),
		config.OptLegacyFallback(false),
		config.OptJobsNumber(3),
	})

	clone := config.New()
	clone.Update(cfg.ToOptions())

	assert.Equal(t, cfg.Primary, clone.Primary)
	assert.Equal(t, cfg.Legacy, clone.Legacy)
	assert.Equal(t, cfg.LegacyFallback, clone.LegacyFallback)
	assert.Equal(t, cfg.JobsNumber, clone.JobsNumber)
}
