package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/pdfsaver/pkg/cli/config"
	controller "github.com/m-mizutani/pdfsaver/pkg/controller/http"
	"github.com/m-mizutani/pdfsaver/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		saverCfg  config.Saver
		sentryCfg config.Sentry
	)

	flags := append(serverCfg.Flags(), saverCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server accepting save requests",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting pdfsaver server",
				slog.String("addr", serverCfg.Addr),
			)
			logger.Debug("Configuration", "saver", saverCfg, "sentry", sentryCfg)

			env, err := saverCfg.Environment(true)
			if err != nil {
				return goerr.Wrap(err, "failed to build environment")
			}

			var opts []usecase.SaverOption
			reporter, err := sentryCfg.Reporter()
			if err != nil {
				return err
			}
			if reporter != nil {
				opts = append(opts, usecase.WithErrorReporter(reporter))
				defer reporter.Flush(2 * time.Second)
			}

			saverUC := usecase.NewSaver(env, opts...)

			server, err := controller.NewServer(
				ctx,
				saverUC,
				controller.WithAddr(serverCfg.Addr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
