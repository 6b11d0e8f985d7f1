package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"moderator/internal/bootstrap"
	"moderator/internal/bootstrap/logging"
	"moderator/internal/errs"
	"moderator/internal/infrastructure/seed"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage tags, moderation rules and tagging sensitivities",
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace rules and sensitivities from a TOML or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("file", args[0]))

		cfg, err := seed.LoadFile(args[0])
		if err != nil {
			return err
		}

		res, err := app.Moderation.ImportConfiguration(ctx, cfg)
		if err != nil {
			logging.Error(ctx, "import moderation configuration failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "import moderation configuration")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "imported tags=%d rules=%d sensitivities=%d\n", res.Tags, res.Rules, res.Sensitivities); err != nil {
			return errs.Wrap(err, "write import output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesImportCmd)
}
