package config

import (
	"errors"
	"fmt"
	"os"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAuthority(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateStats(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAuthority() error {
	if c.Authority.Path == "" {
		return nil
	}
	info, err := os.Stat(c.Authority.Path)
	if err != nil {
		return fmt.Errorf("authority.path %q: %w", c.Authority.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("authority.path %q is a directory", c.Authority.Path)
	}
	return nil
}

func (c *Config) validateDetection() error {
	if c.Detection.MinTripScore < 1 {
		return errors.New("detection.min_trip_score must be at least 1")
	}
	if c.Detection.BaseTitleShrinkRatio <= 0 || c.Detection.BaseTitleShrinkRatio > 1 {
		return errors.New("detection.base_title_shrink_ratio must be in (0, 1]")
	}
	if c.Detection.MaxSpanDays <= 0 {
		return errors.New("detection.max_span_days must be positive")
	}
	if c.Detection.MediumConfidenceScore < 0 {
		return errors.New("detection.medium_confidence_score must not be negative")
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.MinGroupSize < 2 {
		return errors.New("import.min_group_size must be at least 2")
	}
	return nil
}

func (c *Config) validateStats() error {
	if c.Stats.PrefixLength <= 0 {
		return errors.New("stats.prefix_length must be positive")
	}
	if c.Stats.CandidateThreshold <= 0 {
		return errors.New("stats.candidate_threshold must be positive")
	}
	if c.Stats.AuthorityThreshold <= c.Stats.CandidateThreshold {
		return fmt.Errorf("stats.authority_threshold (%d) must exceed stats.candidate_threshold (%d)",
			c.Stats.AuthorityThreshold, c.Stats.CandidateThreshold)
	}
	if c.Stats.VariantMinUses <= 0 {
		return errors.New("stats.variant_min_uses must be positive")
	}
	if c.Stats.ExampleVideos < 0 {
		return errors.New("stats.example_videos must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
