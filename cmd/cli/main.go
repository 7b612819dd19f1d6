package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"inkartidy/adapters/charts"
	"inkartidy/adapters/console"
	"inkartidy/adapters/excel"
	"inkartidy/adapters/report"
	"inkartidy/adapters/sqlstore"
	"inkartidy/app"
	"inkartidy/internal"
	"inkartidy/internal/config"
	"inkartidy/internal/errors"
	"inkartidy/ports"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "inkartidy",
		Short:         "Reshape INKAR unemployment tables and chart them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "TOML config file (default $INKAR_CONFIG)")

	load := func() (*config.Config, *internal.Logger, error) {
		cfg, err := config.Load(config.LoadOptions{ConfigFile: configFile})
		if err != nil {
			return nil, nil, err
		}
		return cfg, internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)), nil
	}

	rootCmd.AddCommand(
		newReshapeCmd(load),
		newAggregateCmd(load),
		newRunsCmd(load),
	)
	return rootCmd
}

type loader func() (*config.Config, *internal.Logger, error)

func newReshapeCmd(load loader) *cobra.Command {
	var input, output string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "reshape",
		Short: "Convert the wide raw table into the long tidy file",
		Long: `Read the wide INKAR export (metadata row of years under the header),
drop placeholder columns, melt every year-mapped column and write the tidy file.

Example: inkartidy reshape --input data/raw/export.csv --output data/clean/clean_long.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Sync()
			if input != "" {
				cfg.Paths.Raw = input
			}
			if output != "" {
				cfg.Paths.Tidy = output
			}
			return runReshape(cmd.Context(), cfg, log, quiet)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Raw wide table (.csv or .xlsx)")
	cmd.Flags().StringVar(&output, "output", "", "Tidy output file")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Do not print diagnostic tables")
	return cmd
}

func runReshape(ctx context.Context, cfg *config.Config, log *internal.Logger, quiet bool) error {
	settings, err := app.ReshapeSettingsFromConfig(cfg)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	var mirror ports.TidyStore
	if store != nil {
		defer store.Close()
		mirror = store
	}

	reader := excel.NewRawReader(settings.RawPath, settings.Reader, log)
	out, err := app.NewReshapeService(reader, mirror, settings, log).Run(ctx)
	if err != nil {
		return err
	}

	if !quiet {
		console.PrintReshape(os.Stdout, out.Result.Stats, out.Result.Records)
	}
	fmt.Printf("Gespeichert: %s (%d Zeilen)\n", out.TidyPath, len(out.Result.Records))
	return nil
}

func newAggregateCmd(load loader) *cobra.Command {
	var tidyPath, figures string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Compute chart tables from the tidy file and export figures",
		Long: `Load the tidy file and compute the regional mean series, the heatmap,
the hotspot selection and the start/end deltas. Writes PNG figures, a workbook
with the underlying tables and a Markdown/HTML report.

Example: inkartidy aggregate --tidy data/clean/clean_long.csv --figures figures`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Sync()
			if tidyPath != "" {
				cfg.Paths.Tidy = tidyPath
			}
			if figures != "" {
				cfg.Paths.Figures = figures
			}
			return runAggregate(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().StringVar(&tidyPath, "tidy", "", "Tidy input file")
	cmd.Flags().StringVar(&figures, "figures", "", "Directory for PNG figures")
	return cmd
}

func runAggregate(ctx context.Context, cfg *config.Config, log *internal.Logger) error {
	settings := app.AggregateSettingsFromConfig(cfg)
	presenters := []ports.Presenter{
		charts.NewRenderer(charts.Options{Dir: settings.FiguresDir, DPI: settings.DPI}, log),
		excel.NewWorkbookWriter(settings.ReportsDir, log),
	}
	reporter := report.NewWriter(settings.ReportsDir, log)

	out, err := app.NewAggregateService(settings, presenters, reporter, log).Run(ctx)
	if err != nil {
		return err
	}
	console.PrintExports(os.Stdout, out.Exports)
	return nil
}

func newRunsCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List reshape runs recorded in the SQL mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Sync()

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if store == nil {
				return errors.ConfigInvalid("no SQL mirror configured (store.dsn)")
			}
			defer store.Close()

			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return errors.StorageError("failed to list runs", err)
			}
			console.PrintRuns(os.Stdout, runs)
			return nil
		},
	}
}

// openStore returns nil when no mirror is configured
func openStore(ctx context.Context, cfg *config.Config) (*sqlstore.Store, error) {
	if !cfg.Store.Enabled() {
		return nil, nil
	}
	store, err := sqlstore.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, errors.StorageError("failed to open SQL mirror", err)
	}
	return store, nil
}
