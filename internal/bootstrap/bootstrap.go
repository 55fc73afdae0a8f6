// Package bootstrap provides process lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/at-ishikawa/coursely/internal/logger"
)

// DefaultShutdownTimeout bounds how long shutdown hooks may run in total.
const DefaultShutdownTimeout = 15 * time.Second

// App runs a long-lived function and tears registered resources down on SIGINT or SIGTERM.
type App struct {
	log             *logger.Logger
	shutdownTimeout time.Duration

	mu    sync.Mutex
	hooks []namedHook
}

type namedHook struct {
	name string
	fn   func(ctx context.Context) error
}

// New creates a new App.
func New(log *logger.Logger) *App {
	return &App{log: log, shutdownTimeout: DefaultShutdownTimeout}
}

// AddShutdownHook registers fn under name. Hooks run in reverse registration order.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, namedHook{name: name, fn: fn})
}

// Run executes run until it returns or the process is signalled.
// On a signal or a cancelled ctx, the shutdown hooks are called and their joined error is returned.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancelShutdown()
		return a.shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		h := a.hooks[i]
		if err := h.fn(ctx); err != nil {
			a.log.Error("shutdown hook failed", "hook", h.name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
