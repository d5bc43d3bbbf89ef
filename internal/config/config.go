package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// FactsDir is the root directory holding numbered fact folders.
	FactsDir string `json:"facts_dir"`

	// Bind is the address the HTTP server listens on.
	Bind string `json:"bind"`

	// Port is the HTTP server port.
	Port int `json:"port"`

	// DataDir holds the serve-history database.
	DataDir string `json:"data_dir"`

	// DisableHistory skips recording served images.
	// The shuffle queue is never persisted either way.
	DisableHistory bool `json:"disable_history,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		FactsDir: "facts",
		Bind:     "127.0.0.1",
		Port:     3000,
		DataDir:  ".catfact",
	}
}

// Load loads configuration from dir/config.json.
// Returns default config if the file doesn't exist.
func Load(dir string) (*Config, error) {
	return loadFile(filepath.Join(dir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.FactsDir = firstNonEmpty(overlay.FactsDir, base.FactsDir)
	result.Bind = firstNonEmpty(overlay.Bind, base.Bind)
	result.DataDir = firstNonEmpty(overlay.DataDir, base.DataDir)

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	// Booleans: overlay wins if true, else base
	result.DisableHistory = base.DisableHistory || overlay.DisableHistory

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstNonEmpty(a, b string) string {
	if a = strings.TrimSpace(a); a != "" {
		return a
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
