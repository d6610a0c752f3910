package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/aggregate"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/export"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/logging"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/notices"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type applicationRun func(ctx context.Context, app *application, logger *zap.Logger, args []string) error

var errClearNotConfirmed = errors.New("refusing to delete all data without --yes")

// withApplication opens the store for a one-shot command and closes it afterwards.
func (c *cli) withApplication(run applicationRun) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		appConfig, err := c.load()
		if err != nil {
			return err
		}
		logger, err := logging.NewCLILogger(appConfig.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		app, err := openApplication(appConfig, logger, notices.LogNotifier{Logger: logger})
		if err != nil {
			return err
		}
		defer app.Close() //nolint:errcheck
		return run(cmd.Context(), app, logger, args)
	}
}

func (c *cli) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "export {json|csv}",
		Short:     "Write an export file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"json", "csv"},
	}
	defaults := c.viper.GetString("export.directory")
	cmd.Flags().String("dir", defaults, "Directory the export file is written to")
	c.bindFlag(cmd.Flags(), "export.directory", "dir")

	cmd.RunE = c.withApplication(func(ctx context.Context, app *application, _ *zap.Logger, args []string) error {
		sink := export.DirectorySink{Directory: c.viper.GetString("export.directory")}
		var (
			filename string
			err      error
		)
		switch args[0] {
		case "json":
			filename, err = export.JSONFilename, app.exporter.ExportJSON(ctx, sink)
		default:
			filename, err = export.CSVFilename, app.exporter.ExportCSV(ctx, sink)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, sink.Path(filename))
		return nil
	})
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all data with a JSON export",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = c.withApplication(func(ctx context.Context, app *application, _ *zap.Logger, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		document, err := app.exporter.Import(ctx, file)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "imported %d workouts, %d feedbacks, %d evaluations\n",
			len(document.Workouts), len(document.Feedbacks), len(document.Evaluations))
		return nil
	})
	return cmd
}

func (c *cli) clearCommand() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every workout, feedback and evaluation",
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm that all data should be deleted")
	run := c.withApplication(func(ctx context.Context, app *application, logger *zap.Logger, _ []string) error {
		if err := app.store.ClearAll(ctx); err != nil {
			return err
		}
		notices.LogNotifier{Logger: logger}.Notify("All data was removed.", notices.KindSuccess)
		return nil
	})
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if !confirmed {
			return errClearNotConfirmed
		}
		return run(cmd, args)
	}
	return cmd
}

func (c *cli) statsCommand() *cobra.Command {
	var rawField string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the summary and the category distribution",
	}
	cmd.Flags().StringVar(&rawField, "field", string(aggregate.FieldCount), "Distribution field (count, minutes)")
	cmd.RunE = c.withApplication(func(ctx context.Context, app *application, _ *zap.Logger, _ []string) error {
		field, err := aggregate.ParseField(rawField)
		if err != nil {
			return err
		}
		workouts := app.training.Workouts(ctx)
		summary := aggregate.Summarize(workouts, app.training.Feedbacks(ctx), app.training.Evaluations(ctx))

		writer := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(writer, "workouts\t%d\n", summary.TotalWorkouts)
		fmt.Fprintf(writer, "blocks\t%d\n", summary.TotalBlocks)
		fmt.Fprintf(writer, "feedbacks\t%d\n", summary.FeedbackCount)
		fmt.Fprintf(writer, "evaluations\t%d\n", summary.EvaluationCount)
		fmt.Fprintf(writer, "average pain\t%s\n", formatAverage(summary.AveragePain))
		fmt.Fprintf(writer, "average rpe\t%s\n", formatAverage(summary.AverageRPE))
		fmt.Fprintln(writer)
		fmt.Fprintf(writer, "category\t%s\tshare\n", field)
		for _, entry := range aggregate.CountByCategory(workouts, field).Sorted() {
			fmt.Fprintf(writer, "%s\t%g\t%g%%\n", entry.Category, entry.Value, entry.Share)
		}
		return writer.Flush()
	})
	return cmd
}

func formatAverage(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *value)
}

func (c *cli) workoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workouts",
		Short: "List stored workouts",
	}
	cmd.RunE = c.withApplication(func(ctx context.Context, app *application, _ *zap.Logger, _ []string) error {
		writer := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "ID\tDATE\tATHLETE\tGOAL\tBLOCKS")
		for _, workout := range app.training.Workouts(ctx) {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\n",
				workout.ID, training.FormatDate(workout.Date), workout.Athlete, workout.Goal, len(workout.Blocks))
		}
		return writer.Flush()
	})
	return cmd
}
