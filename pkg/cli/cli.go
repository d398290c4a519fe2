package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application. Variables from a .env file in the working
// directory are loaded first; values already set in the environment win.
func Run(ctx context.Context, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to load .env file")
	}

	var loggerCfg config.Logger

	app := &cli.Command{
		Name:    "buddyguard",
		Usage:   "Role-gated school incident reporting service",
		Version: "0.1.0",
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdSeed(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		ctxlog.From(ctx).Error("CLI execution failed", "error", err)
		return goerr.Wrap(err, "CLI execution failed")
	}

	return nil
}
