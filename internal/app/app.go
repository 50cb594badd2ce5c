package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/todosync/internal/actions"
	"github.com/five82/todosync/internal/config"
	"github.com/five82/todosync/internal/logging"
	"github.com/five82/todosync/internal/prefs"
	"github.com/five82/todosync/internal/state"
	"github.com/five82/todosync/internal/todoapi"
	"github.com/five82/todosync/internal/ui"
)

// Options configure the todosync application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/todosync/prefs.toml
	RefreshEvery int    // seconds; zero keeps the config value
	LogLevel     string // empty keeps the config value
}

type services struct {
	cfg     config.Config
	prefs   prefs.Prefs
	logger  *zap.Logger
	client  *todoapi.Client
	store   *state.Store
	actions *actions.Actions
}

// Run boots the todosync TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	svc, err := newServices(opts)
	if err != nil {
		return err
	}
	defer func() { _ = svc.logger.Sync() }()

	svc.logger.Info("todosync starting",
		zap.String("origin", svc.client.BaseURL()),
		zap.Duration("refresh", svc.cfg.RefreshEvery),
	)

	StartRefresher(ctx, svc.actions, svc.cfg.RefreshEvery, svc.logger.Named("refresh"))

	err = ui.Run(ui.Options{
		Context:   ctx,
		Actions:   svc.actions,
		Store:     svc.store,
		LogFile:   svc.cfg.LogFile,
		ThemeName: svc.prefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
	if err != nil {
		svc.logger.Error("ui exited with error", zap.Error(err))
		return err
	}
	svc.logger.Info("todosync stopped")
	return nil
}

func newServices(opts Options) (*services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshEvery = time.Duration(opts.RefreshEvery) * time.Second
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	logger, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := todoapi.NewClient(cfg.APIOrigin, cfg.Timeout)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init todo client: %w", err)
	}

	store := state.NewStore()
	store.InitTargetTodo()
	store.SetEmptyMessage(userPrefs.Filter)

	return &services{
		cfg:     cfg,
		prefs:   userPrefs,
		logger:  logger,
		client:  client,
		store:   store,
		actions: actions.New(store, client, logger.Named("actions")),
	}, nil
}
