package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"posawiki/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Authority points at the tag authority definition file. An empty path means
// the embedded seed vocabulary is used.
type Authority struct {
	Path string `toml:"path"`
}

// Detection holds the trip detector thresholds.
type Detection struct {
	TripKeywords []string `toml:"trip_keywords"`
	// MinTripScore is the keyword count at which an unmarked title becomes a candidate.
	MinTripScore int `toml:"min_trip_score"`
	// BaseTitleShrinkRatio marks a title as a candidate when stripping decorations
	// leaves less than this fraction of its length.
	BaseTitleShrinkRatio float64 `toml:"base_title_shrink_ratio"`
	MaxSpanDays          int     `toml:"max_span_days"`
	// MediumConfidenceScore is the average trip score needed for medium confidence.
	MediumConfidenceScore float64 `toml:"medium_confidence_score"`
}

// Import controls how confirmed candidate groups are persisted.
type Import struct {
	MinGroupSize        int  `toml:"min_group_size"`
	ImportLowConfidence bool `toml:"import_low_confidence"`
}

// Stats holds the thresholds used by tag statistics reports.
type Stats struct {
	PrefixLength       int `toml:"prefix_length"`
	AuthorityThreshold int `toml:"authority_threshold"`
	CandidateThreshold int `toml:"candidate_threshold"`
	VariantMinUses     int `toml:"variant_min_uses"`
	ExampleVideos      int `toml:"example_videos"`
}

// Search configures the full-text video index.
type Search struct {
	Enabled  bool   `toml:"enabled"`
	IndexDir string `toml:"index_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for posawiki.
//
// Configuration sections by subsystem:
//   - Paths: catalog database and log directories
//   - Authority: tag vocabulary source
//   - Detection: trip detector thresholds
//   - Import: candidate group persistence rules
//   - Stats: tag statistics buckets
//   - Search: full-text index location
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Authority Authority `toml:"authority"`
	Detection Detection `toml:"detection"`
	Import    Import    `toml:"import"`
	Stats     Stats     `toml:"stats"`
	Search    Search    `toml:"search"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("posawiki.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, log and search index directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir}
	if c.Search.Enabled {
		dirs = append(dirs, c.Search.IndexDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the catalog database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, databaseFileName)
}

// LockPath returns the advisory lock file guarding mutating passes.
func (c *Config) LockPath() string {
	return c.DatabasePath() + ".lock"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
