package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/buddyguard/pkg/cli/config"
	"github.com/secmon-lab/buddyguard/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var (
		storeCfg     config.Store
		fallbackCfg  config.Fallback
	)

	return &cli.Command{
		Name:  "seed",
		Usage: "Write the sample incidents and staff profiles into an empty store",
		Flags: joinFlags(
			storeCfg.Flags(),
			fallbackCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			data, err := fallbackCfg.Configure()
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

			_, err = usecase.Seed(ctx, repo, data)
			return err
		},
	}
}
