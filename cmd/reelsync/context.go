package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reelsync/internal/config"
	"reelsync/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
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

// configFor loads the configuration and checks the credentials the command
// needs.
func (c *commandContext) configFor(features ...config.Feature) (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.ValidateFor(features...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if c.verbose != nil && *c.verbose {
		return "debug"
	}
	if cfg == nil {
		return "info"
	}
	return cfg.Logging.Level
}

// newLogger writes to stderr so command output on stdout stays parseable, and
// mirrors to reelsync.log in the log directory.
func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	outputs := []string{"stderr"}
	format := "console"
	if cfg != nil {
		format = cfg.Logging.Format
		if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
			outputs = append(outputs, filepath.Join(dir, "reelsync.log"))
		}
	}
	logger, err := logging.New(logging.Options{
		Level:       c.resolvedLogLevel(cfg),
		Format:      format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// acquireRunLock keeps two catalog-writing commands from running at once.
func acquireRunLock(cfg *config.Config) (func(), error) {
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another reelsync run is in progress (lock %s)", cfg.LockPath())
	}
	return func() { _ = lock.Unlock() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
