package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"posawiki/internal/authority"
	"posawiki/internal/catalog"
	"posawiki/internal/config"
	"posawiki/internal/logging"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
	runID      string
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// JSONMode reports whether --json was passed.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// ensureLogger builds the run logger once. Every line carries the run id of
// this invocation.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.runID = uuid.NewString()
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, c.runID)
	})
	return c.logger, c.loggerErr
}

// passContext tags cmd's context with the pass name used in log lines.
func passContext(cmd *cobra.Command, pass string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithPass(ctx, pass)
}

func (c *commandContext) withStore(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// withWriteLock runs fn while holding the catalog's advisory lock. A second
// writer fails immediately instead of waiting.
func (c *commandContext) withWriteLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another posawiki pass holds %s", cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			if logger, logErr := c.ensureLogger(); logErr == nil {
				logging.WarnWithContext(logger, "failed to release catalog lock", "lock_release_failed",
					logging.String("path", cfg.LockPath()),
					logging.Error(err),
				)
			}
		}
	}()
	return fn()
}

// withWriter opens the catalog under the write lock.
func (c *commandContext) withWriter(fn func(*catalog.Store) error) error {
	return c.withWriteLock(func() error {
		return c.withStore(fn)
	})
}

func (c *commandContext) loadAuthorities() (*authority.Snapshot, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	snap, err := authority.LoadOrSeed(cfg.Authority.Path)
	if err != nil {
		return nil, fmt.Errorf("load authorities: %w", err)
	}
	return snap, nil
}

func (c *commandContext) resolver() (*authority.Resolver, error) {
	snap, err := c.loadAuthorities()
	if err != nil {
		return nil, err
	}
	return authority.NewResolver(snap), nil
}

var errSearchDisabled = errors.New("search is disabled in configuration ([search] enabled = false)")

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
