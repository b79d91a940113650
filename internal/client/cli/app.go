// Package cli renders the client screens in the terminal and feeds user
// input to the session controller. It is presentational glue: all flow
// decisions live in the session package.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"medai/internal/client/api"
	"medai/internal/client/config"
	"medai/internal/client/local"
	"medai/internal/logging"
	"medai/internal/session"
)

type App struct {
	config *config.Config
	ctrl   *session.Controller
	logger logging.Logger
	reader *bufio.Reader
}

// NewApp wires the session controller with either the remote backend or the
// local SQLite store, depending on configuration.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	var (
		identity session.Identity
		store    session.Store
	)

	switch c.Mode {
	case config.ModeLocal:
		db, err := local.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing local database: %w", err)
		}
		identity = local.NewIdentity(db)
		store = local.NewStore(db)
	case config.ModeRemote:
		backend := api.NewBackend(c.ServerAddr)
		identity = backend
		store = backend
	default:
		return nil, fmt.Errorf("unknown storage mode: %q", c.Mode)
	}

	ctrl := session.NewController(identity, store, api.NewPredictionClient(c.PredictionAddr), logger)
	ctrl.SetHistoryLimit(c.HistoryLimit)
	ctrl.SetPredictTimeout(c.PredictTimeout)

	return &App{
		config: c,
		ctrl:   ctrl,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.ctrl.LoadCatalog(ctx)
	a.Root(ctx)
}
