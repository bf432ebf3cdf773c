package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sleeptrack/internal/bootstrap"
	sleepdto "sleeptrack/internal/modules/sleep/dto"
	"sleeptrack/internal/platform/config"
	apperrors "sleeptrack/internal/platform/errors"
	"sleeptrack/internal/platform/format"
	"sleeptrack/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "sleeptrack",
		Short:         "Track your sleep from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", "", "data directory (default ~/.sleeptrack)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace|debug|info|warn|error (overrides config)")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newNightCmd(opts))
	root.AddCommand(newExportCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	dir := opts.dataDir
	if strings.TrimSpace(dir) == "" {
		dir = config.DefaultDataDir()
	}
	cfg, err := config.New(dir)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

// loadApp builds the app with a stderr logger for one-shot commands.
func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New("sleeptrack", cfg.LogLevel, os.Stderr))
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the sleep tracker terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			// The alt screen owns the terminal, so the TUI logs to a file.
			log, logFile, err := logging.NewFile("sleeptrack", cfg.LogLevel, cfg.LogPath)
			if err != nil {
				return err
			}
			app, err := bootstrap.New(cfg, log)
			if err != nil {
				_ = logFile.Close()
				return err
			}
			app.OwnCloser(logFile)
			defer app.Close()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newNightCmd(opts *rootOptions) *cobra.Command {
	night := &cobra.Command{Use: "night", Short: "Record and inspect nights"}

	night.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a night now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SleepCLI.Start(ctxOf(cmd))
			if err != nil {
				if errors.Is(err, apperrors.ErrNightInProgress) {
					return fmt.Errorf("%w: run `night stop` first", err)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started night %d at %s\n", out.ID, format.Timestamp(out.StartTime))
			return nil
		},
	})

	var stopID int64
	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the night in progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SleepCLI.Stop(ctxOf(cmd), stopID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped night %d after %s\n", out.ID, format.Duration(out.StartTime, out.EndTime))
			return nil
		},
	}
	stop.Flags().Int64Var(&stopID, "id", 0, "night id (defaults to the night in progress)")

	var rateID int64
	var quality int
	rate := &cobra.Command{
		Use:   "rate",
		Short: "Rate a night from 0 (very bad) to 5 (excellent)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SleepCLI.Rate(ctxOf(cmd), rateID, quality)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "night %d rated %s\n", out.ID, format.Quality(out.Quality))
			return nil
		},
	}
	rate.Flags().Int64Var(&rateID, "id", 0, "night id")
	rate.Flags().IntVar(&quality, "quality", format.QualityUnrated, "quality 0..5")
	_ = rate.MarkFlagRequired("id")
	_ = rate.MarkFlagRequired("quality")

	night.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List nights, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			nights, err := app.SleepCLI.List(ctxOf(cmd))
			if err != nil {
				return err
			}
			if len(nights) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no nights")
				return nil
			}
			for _, n := range nights {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), nightLine(n))
			}
			return nil
		},
	})

	var showID int64
	show := &cobra.Command{
		Use:   "show",
		Short: "Show one night",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			var n sleepdto.NightOutput
			if showID == 0 {
				n, err = app.SleepCLI.Tonight(ctxOf(cmd))
			} else {
				n, err = app.SleepCLI.Show(ctxOf(cmd), showID)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), nightLine(n))
			return nil
		},
	}
	show.Flags().Int64Var(&showID, "id", 0, "night id (defaults to the night in progress)")

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded night",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("%w: refusing to clear without --yes", apperrors.ErrInvalidInput)
			}
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.SleepCLI.Clear(ctxOf(cmd)); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All your data is gone forever.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	night.AddCommand(stop, rate, show, clearCmd)
	return night
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write the history as a markdown note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SleepCLI.Export(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d nights to %s\n", out.Nights, out.Path)
			return nil
		},
	}
}

func nightLine(n sleepdto.NightOutput) string {
	duration := format.Duration(n.StartTime, n.EndTime)
	if n.InProgress {
		duration = "in progress"
	}
	return fmt.Sprintf("%d\t%s\t%s\t%s", n.ID, format.Timestamp(n.StartTime), duration, format.Quality(n.Quality))
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
