// Package server initializes and runs the record gateway.
// It connects to the ledger node, optionally opens the submission
// journal database, and starts the HTTP API with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/medledger/gateway/internal/logging"
	"github.com/medledger/gateway/internal/server/config"
	"github.com/medledger/gateway/internal/server/httpapi"
	"github.com/medledger/gateway/internal/server/identity"
	"github.com/medledger/gateway/internal/server/journal"
	"github.com/medledger/gateway/internal/server/ledger"
	"github.com/medledger/gateway/internal/server/patients"
	"github.com/medledger/gateway/internal/server/shared/db"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	patientService *patients.Service
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	contract, err := identity.Parse(c.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("contract address %q: %w", c.ContractAddress, err)
	}

	lc, err := ledger.Dial(context.Background(), c.LedgerRPCURL, contract)
	if err != nil {
		return nil, fmt.Errorf("ledger dial error: %w", err)
	}

	var jr journal.Repository
	if c.DatabaseDSN != "" {
		rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := rm.RunMigrations(context.Background()); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		jr = rm.Journal()
	}

	ps := patients.NewService(lc, jr, c, logger)

	return &App{config: c, logger: logger, patientService: ps}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.patientService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
