package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/cli/config"
	controller "github.com/secmon-lab/buddyguard/pkg/controller/http"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
	"github.com/secmon-lab/buddyguard/pkg/usecase"
	"github.com/secmon-lab/buddyguard/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		storeCfg     config.Store
		geminiCfg    config.Gemini
		slackCfg     config.Slack
		fallbackCfg  config.Fallback
	)

	flags := joinFlags(
		serverCfg.Flags(),
		storeCfg.Flags(),
		geminiCfg.Flags(),
		slackCfg.Flags(),
		fallbackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting buddyguard server",
				slog.Any("server", serverCfg),
				slog.Any("store", storeCfg),
				slog.Any("gemini", geminiCfg),
				slog.Any("slack", slackCfg),
				slog.Any("fallback", fallbackCfg),
			)

			fallback, err := fallbackCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := storeCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Warn("Failed to close repository", slog.Any("error", err))
				}
			}()

			m := metrics.New()
			tracker := &async.Tracker{}

			deps := usecase.WorkflowDeps{
				Repo:     repo,
				Metrics:  m,
				Fallback: fallback,
				Tracker:  tracker,
			}
			var classifier interfaces.Classifier
			if svc := geminiCfg.ConfigureClassifier(ctx, logger, m); svc != nil {
				classifier = svc
				deps.Classifier = svc
			}
			if svc := slackCfg.ConfigureOptional(logger, m); svc != nil {
				deps.Notifier = svc
			}

			liveness := usecase.NewLiveness(repo, serverCfg.LivenessInterval, m)
			liveness.Start(ctx)
			defer liveness.Stop()

			useCases := controller.NewUseCases(
				usecase.NewSessionUseCase(deps, usecase.WithIdleTimeout(serverCfg.SessionIdle)),
				usecase.NewProfileUseCase(repo, fallback, m),
				usecase.NewDashboardUseCase(repo, m),
				liveness,
				classifier,
			)
			server := controller.NewServer(ctx, serverCfg.Addr, useCases, m)

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverErr <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-serverErr:
				return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", serverCfg.Addr))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}
			tracker.Wait()

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
