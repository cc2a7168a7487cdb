// Package config loads the optional JSON config file at
// <baseDir>/config.json and merges it over built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the application settings.
type Config struct {
	// RosterMaxStudents caps how many students an import may grow the
	// roster to.
	RosterMaxStudents int `json:"roster_max_students"`

	// AllowedPaths lists extra directories (absolute paths only) where
	// import may read rosters and report may write files. The default
	// exports directory under ~/.studymatch is always allowed.
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths lifts the directory allowlist for import/report.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns and DBMaxIdleConns tune the sql.DB pool. Zero keeps
	// the driver defaults; set both to 1 to serialize database access.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools names MCP tools to leave unregistered. Unknown names
	// are ignored.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes disables whole tool families by prefix. Known types:
	// "student", "resource", "match".
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		RosterMaxStudents: 5000,
	}
}

// Load reads baseDir/config.json merged over defaults. A missing file is not
// an error; invalid JSON is.
func Load(baseDir string) (*Config, error) {
	overlay, err := readConfigFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// readConfigFile returns a zero-valued (not defaulted) Config when the file
// does not exist, so Merge can tell "unset" from "explicitly zero".
func readConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge layers overlay over base: non-zero overlay scalars win, booleans OR,
// and slices union with duplicates removed.
func Merge(base, overlay *Config) *Config {
	return &Config{
		RosterMaxStudents: pickInt(base.RosterMaxStudents, overlay.RosterMaxStudents),
		DBMaxOpenConns:    pickInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns),
		DBMaxIdleConns:    pickInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns),
		AllowUnsafePaths:  base.AllowUnsafePaths || overlay.AllowUnsafePaths,
		AllowedPaths:      mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths),
		DisabledTools:     mergeStringSlice(base.DisabledTools, overlay.DisabledTools),
		DisabledTypes:     mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes),
	}
}

func pickInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice unions two slices, trimming whitespace and dropping
// empties and duplicates. Order follows first appearance.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var result []string

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		result = append(result, s)
	}

	return result
}
