package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/taxonomy"
	"gopkg.in/yaml.v3"
)

// configYAML is the documented default configuration written on first
// run.
const configYAML = `# maikedb configuration.
# Precedence: CLI flags > MAIKEDB_* environment variables > this file
# > built-in defaults.

# PRIMARY: the canonical mAIke store. The only writable database.
primary:
  host: localhost
  port: 5432
  user: postgres
  password: postgres
  database: maike_assistente
  ssl_mode: disable

# LEGACY: the old Make store, consulted read-only.
legacy:
  host: localhost
  port: 5432
  user: postgres
  password: postgres
  database: make
  ssl_mode: disable

# Customs-declaration source database (DUIMP detail tables).
declarations:
  host: localhost
  port: 5432
  user: postgres
  password: postgres
  database: declarations
  ssl_mode: disable

# Permit consulting LEGACY when PRIMARY lacks a record.
legacy_fallback: true

# Pipeline tool (Kanban) candidate base URLs, tried in order.
kanban:
  endpoints:
    - http://kanban.local:8080
  timeout_sec: 5

# Government declaration lookup service.
declaration:
  base_url: https://portalunico.siscomex.gov.br
  timeout_sec: 10

log:
  level: info        # debug, info, warn, error
  format: text       # text or json
  destination: stderr # file, stdout or stderr

# Per-source query timeout during resolution.
query_timeout_sec: 5

# Worker count for backfill runs. Defaults to the CPU count.
# jobs_number: 8
`

// ConfigFileExists checks if a config file exists at the default
// location.
func ConfigFileExists() (bool, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return false, fmt.Errorf("failed to get user home directory: %w", err)
	}
	_, err = os.Stat(config.ConfigFilePath(home))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// GenerateDefaultConfig creates a documented default maikedb.yaml.
// Does NOT overwrite an existing file. Returns the path written.
func GenerateDefaultConfig() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	path := config.ConfigFilePath(home)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(configYAML), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// LoadTaxonomy reads and validates the expense-type taxonomy from
// expense_types.yaml under the config directory.
func LoadTaxonomy(cfg *config.Config) (*taxonomy.Taxonomy, error) {
	path := config.TaxonomyFilePath(cfg.HomeDir)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w",
			path, err)
	}

	var tax taxonomy.Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %s: %w",
			path, err)
	}

	if err := tax.Validate(); err != nil {
		return nil, err
	}
	return &tax, nil
}
