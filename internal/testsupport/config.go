package testsupport

import (
	"path/filepath"
	"testing"

	"posawiki/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Search.IndexDir = filepath.Join(base, "data", "search")
	cfgVal.Authority.Path = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAuthorityFile points the config at an authority definition file
// written by the test.
func WithAuthorityFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Authority.Path = path
	}
}

// WithSearchDisabled turns off the full-text index.
func WithSearchDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.Enabled = false
	}
}

// WithImportLowConfidence lets trip imports persist low-confidence groups.
func WithImportLowConfidence() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Import.ImportLowConfidence = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
