package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"careerdesk/internal/api"
	"careerdesk/internal/config"
	"careerdesk/internal/logging"
	"careerdesk/internal/session"
	"careerdesk/internal/ux"
)

// environment is the wired runtime every subcommand starts from:
// resolved config, persisted session, preferences, and the HTTP client.
type environment struct {
	dir    string
	cfg    *config.Config
	sess   *session.State
	prefs  *ux.Manager
	client *api.Client
}

func loadEnvironment() (*environment, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = config.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logging.Initialize(dir); err != nil {
		// Logging is best-effort; a read-only home must not block use.
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}

	sess := session.New(dir)
	if err := sess.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	prefs := ux.NewManager(dir)
	if err := prefs.Load(); err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	httpTimeout := cfg.Timeout()
	if timeout > 0 {
		httpTimeout = timeout
	}
	logging.Boot("environment ready: dir=%s base_url=%s authenticated=%t",
		dir, cfg.API.BaseURL, sess.Authenticated())

	return &environment{
		dir:    dir,
		cfg:    cfg,
		sess:   sess,
		prefs:  prefs,
		client: api.New(cfg.API.BaseURL, httpTimeout, sess),
	}, nil
}

func (e *environment) cachePath() string {
	return filepath.Join(e.dir, "cache.db")
}

// requireAuth fails fast before any request that needs a token.
func (e *environment) requireAuth() error {
	if !e.sess.Authenticated() {
		return fmt.Errorf("not logged in. Run 'careerdesk login --email you@example.com' first")
	}
	return nil
}

// commandContext is the context direct-action subcommands run under.
func commandContext() (context.Context, context.CancelFunc) {
	d := 30 * time.Second
	if timeout > 0 {
		d = timeout
	}
	return context.WithTimeout(context.Background(), d)
}
