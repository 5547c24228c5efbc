// Package iotesting provides shared utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"testing"

	"github.com/helenomaffra/maikedb/internal/ioconfig"
	"github.com/helenomaffra/maikedb/pkg/config"
)

const (
	// TestPrimaryDatabase is the PRIMARY database name used by
	// integration tests so they never touch production data.
	TestPrimaryDatabase = "maikedb_test"

	// TestLegacyDatabase is the LEGACY database name used by
	// integration tests.
	TestLegacyDatabase = "make_test"
)

// GetTestConfig returns a configuration suitable for integration
// tests: the standard config with database names overridden to the
// test databases.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... connect with cfg
//	}
func GetTestConfig() *config.Config {
	result, err := ioconfig.Load("")

	var cfg *config.Config
	if err != nil {
		cfg = config.New()
	} else {
		cfg = result.Config
	}

	cfg.Primary.Database = TestPrimaryDatabase
	cfg.Legacy.Database = TestLegacyDatabase
	return cfg
}

// TempHome points the config paths at a throwaway home directory so a
// test cannot write into ~/.config/maikedb or ~/.cache/maikedb.
func TempHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}
