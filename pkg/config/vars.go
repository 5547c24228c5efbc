package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "maikedb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/maikedb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/maikedb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/maikedb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the maikedb.yaml file.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "maikedb.yaml")
}

// CacheFilePath returns the full path to the process cache database.
func CacheFilePath(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "processes.db")
}

// TaxonomyFilePath returns the full path to the expense-type taxonomy file.
func TaxonomyFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "expense_types.yaml")
}
