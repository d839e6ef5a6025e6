package console

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hisptogo/arrimage-console/internal/console/store"
	"github.com/hisptogo/arrimage-console/pkg/adminsdk"
	"github.com/hisptogo/arrimage-console/pkg/cryptox"
	"github.com/hisptogo/arrimage-console/pkg/slogx"
)

// App bundles everything a CLI command needs: configuration, logger, the
// durable token store and the session built on it.
type App struct {
	Config  Config
	Logger  *slog.Logger
	Store   *store.Store
	Session *adminsdk.Session
}

// NewApp loads configuration, opens the session store and constructs the
// session. It does not talk to the backend; commands call Restore or Login
// themselves.
func NewApp(version string) (*App, error) {
	cfg := LoadConfig()

	logger := slogx.New(slogx.Config{
		Service: "arrimage-console",
		Version: version,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SessionFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	st, err := store.Open(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := adminsdk.NewClient(
		cfg.APIBaseURL,
		adminsdk.WithTimeout(cfg.Timeout),
		adminsdk.WithLogger(logger),
	)

	session := client.NewSession(st, adminsdk.WithForcedLogoutHandler(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Run 'arrimage login' to sign in again.")
	}))

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		Session: session,
	}, nil
}

// Close releases the session store.
func (a *App) Close() error { return a.Store.Close() }

// RequireSession restores the persisted session and fails when none is
// usable. Commands that need authentication call this first.
func (a *App) RequireSession(ctx context.Context) (*adminsdk.Identity, error) {
	identity, err := a.Session.Restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("session restore failed: %w", err)
	}
	if identity == nil {
		return nil, fmt.Errorf("not logged in, run 'arrimage login' first")
	}
	return identity, nil
}
