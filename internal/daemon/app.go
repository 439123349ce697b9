// SPDX-License-Identifier: MIT

// Package daemon owns the runtime lifecycle of the movie info service.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/movieinfo/internal/config"
	"github.com/ManuGH/movieinfo/internal/log"
)

const defaultShutdownTimeout = 15 * time.Second

// Server is the part of the HTTP server the App drives.
type Server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// App runs the HTTP server and the config reload wiring until its context
// is cancelled.
type App struct {
	logger          zerolog.Logger
	server          Server
	holder          *config.Holder
	shutdownTimeout time.Duration
	reloadSignal    os.Signal
}

// NewApp creates a new App. holder may be nil, which disables reloading.
func NewApp(logger zerolog.Logger, server Server, holder *config.Holder, shutdownTimeout time.Duration) *App {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &App{
		logger:          logger,
		server:          server,
		holder:          holder,
		shutdownTimeout: shutdownTimeout,
		reloadSignal:    syscall.SIGHUP,
	}
}

// Run blocks until ctx is cancelled or the server fails. A cancelled context
// triggers a graceful shutdown and Run returns nil.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return ErrMissingServer
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.holder != nil {
		// Best effort: a missing watcher still leaves SIGHUP reloads.
		if err := a.holder.StartWatcher(gctx); err != nil {
			a.logger.Warn().Err(err).Str(log.FieldEvent, "config.watcher_start_failed").Msg("failed to start config watcher")
		}
		defer a.holder.Stop()

		applyCh := make(chan config.AppConfig, 1)
		a.holder.RegisterListener(applyCh)
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case cfg := <-applyCh:
					a.apply(cfg)
				}
			}
		})

		if a.reloadSignal != nil {
			g.Go(func() error {
				hup := make(chan os.Signal, 1)
				signal.Notify(hup, a.reloadSignal)
				defer signal.Stop(hup)

				for {
					select {
					case <-gctx.Done():
						return nil
					case <-hup:
						a.logger.Info().
							Str(log.FieldEvent, "config.reload_signal").
							Str("signal", a.reloadSignal.String()).
							Msg("received reload signal, reloading config")
						if err := a.holder.Reload(gctx); err != nil {
							a.logger.Warn().Err(err).Str(log.FieldEvent, "config.reload_failed").Msg("config reload failed")
						}
					}
				}
			})
		}
	}

	g.Go(func() error {
		return a.server.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	a.logger.Info().Str(log.FieldEvent, "daemon.stopped").Msg("daemon stopped")
	return err
}

// apply hot-applies the settings that do not need a restart.
func (a *App) apply(cfg config.AppConfig) {
	if cfg.LogLevel == "" {
		return
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		a.logger.Warn().Err(err).Str("level", cfg.LogLevel).Msg("ignoring invalid log level")
		return
	}
	a.logger.Info().
		Str(log.FieldEvent, "config.applied").
		Str("level", cfg.LogLevel).
		Msg("applied log level")
}
