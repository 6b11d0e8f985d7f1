package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"moderator/internal/bootstrap"
	"moderator/internal/bootstrap/logging"
	"moderator/internal/errs"
	"moderator/internal/infrastructure/metrics"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Worker runtime commands",
}

var workerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Consume queued moderation jobs and serve /metrics",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
		if err := requireDurableQueue(app); err != nil {
			return err
		}
		ctx := logging.WithAttrs(cmd.Context(), slog.String("component", "worker"))
		noMetrics, _ := cmd.Flags().GetBool("no-metrics")

		logging.Info(ctx, "worker started",
			slog.String("queue_driver", app.Config.Queue.Driver),
			slog.Int("workers", app.Config.Queue.Workers),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return app.Jobs.Consume(gctx)
		})
		if !noMetrics {
			g.Go(func() error {
				return metrics.Serve(gctx, app.Config.Metrics.Addr, metrics.NewRouter(app.Ping))
			})
		}

		if err := g.Wait(); err != nil && ctx.Err() == nil {
			logging.Error(ctx, "worker stopped", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "run worker")
		}
		logging.Info(ctx, "worker stopped")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.AddCommand(workerRunCmd)

	workerRunCmd.Flags().Bool("no-metrics", false, "Do not start the metrics server")
}
