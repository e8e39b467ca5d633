package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fkhayef/paylock/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// App runs the HTTP server and the background jobs until its context is
// cancelled or the process receives a termination signal.
type App struct {
	addr    string
	handler http.Handler
	jobs    *cron.Cron
	logger  logging.Logger
}

// NewApp creates an app serving handler on addr. jobs may be nil.
func NewApp(addr string, handler http.Handler, jobs *cron.Cron, logger logging.Logger) *App {
	return &App{addr: addr, handler: handler, jobs: jobs, logger: logger}
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
}

// Run blocks until shutdown. It returns an error only when the listener
// fails; a signal-driven shutdown returns nil.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := app.initSignalHandler(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              app.addr,
		Handler:           app.handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if app.jobs != nil {
		app.jobs.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "server starting", "addr", app.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	app.logger.Info(context.Background(), "server shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "server shutdown failed", "error", err)
	}
	if app.jobs != nil {
		<-app.jobs.Stop().Done()
	}

	return runErr
}
