package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"mafqood/internal/backend"
	"mafqood/internal/config"
	"mafqood/internal/logging"
	"mafqood/internal/session"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
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

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withSession opens the session store for the duration of fn.
func (c *commandContext) withSession(fn func(*session.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := session.Open(cfg.SessionDBPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// newClient builds a backend client whose bearer tokens come from the
// session store; tokens may be nil for unauthenticated commands.
func (c *commandContext) newClient(tokens backend.TokenSource) (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return backend.New(cfg, tokens, c.ensureLogger()), nil
}

// currentUserID resolves the logged-in user's identifier, or empty when
// no session exists. It is threaded explicitly into normalization.
func currentUserID(ctx context.Context, store *session.Store) string {
	sess, err := store.Load(ctx)
	if err != nil || sess == nil {
		return ""
	}
	return sess.UserID
}
