package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subsync/internal/batch"
	"subsync/internal/config"
	"subsync/internal/history"
	"subsync/internal/logging"
	"subsync/internal/transfer"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	closers []func() error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// baseLogger falls back to a console logger on stderr when the configured
// outputs cannot be opened.
func (c *commandContext) baseLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console"})
			logger.Warn("log setup failed; using stderr only", logging.Error(err))
		}
		c.logger = logger
	})
	return c.logger
}

// orchestrator builds a batch orchestrator. withClient opens the configured
// transfer backend; merge-only commands pass false.
func (c *commandContext) orchestrator(ctx context.Context, withClient bool, opts ...batch.Option) (*batch.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	var client transfer.Client
	if withClient {
		client, err = transfer.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
	}

	all := []batch.Option{batch.WithLogger(c.baseLogger())}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryDBPath())
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store.Close)
		all = append(all, batch.WithJournal(store))
	}
	all = append(all, opts...)
	return batch.New(cfg, client, all...)
}

// close releases clients and stores opened by orchestrator, newest first.
func (c *commandContext) close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
