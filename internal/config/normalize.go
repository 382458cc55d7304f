package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAuthority(); err != nil {
		return err
	}
	c.normalizeDetection()
	if err := c.normalizeSearch(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAuthority() error {
	c.Authority.Path = strings.TrimSpace(c.Authority.Path)
	if c.Authority.Path == "" {
		if value, ok := os.LookupEnv(authorityPathEnv); ok {
			c.Authority.Path = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Authority.Path, err = expandPath(c.Authority.Path); err != nil {
		return fmt.Errorf("authority.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeDetection() {
	keywords := make([]string, 0, len(c.Detection.TripKeywords))
	seen := make(map[string]struct{}, len(c.Detection.TripKeywords))
	for _, keyword := range c.Detection.TripKeywords {
		normalized := strings.ToLower(strings.TrimSpace(keyword))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		keywords = append(keywords, normalized)
	}
	if len(keywords) == 0 {
		keywords = DefaultTripKeywords()
	}
	c.Detection.TripKeywords = keywords
}

func (c *Config) normalizeSearch() error {
	if strings.TrimSpace(c.Search.IndexDir) == "" {
		c.Search.IndexDir = filepath.Join(c.Paths.DataDir, defaultSearchIndexDirName)
	}
	var err error
	if c.Search.IndexDir, err = expandPath(c.Search.IndexDir); err != nil {
		return fmt.Errorf("search.index_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
