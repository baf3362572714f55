package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"CropInsights/internal/app"
	"CropInsights/internal/config"
	"CropInsights/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig string
	flagDate   string
)

var rootCmd = &cobra.Command{
	Use:           "cropinsights",
	Short:         "Rice market news insights and district yield service",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	runCmd.Flags().StringVar(&flagDate, "date", "", "date to process (YYYY-MM-DD, default yesterday)")

	rootCmd.AddCommand(serveCmd, runCmd, ingestCmd, datesCmd, versionCmd)
}

func bootstrap(ctx context.Context) (*app.Application, *slog.Logger, error) {
	cfg := config.Load(flagConfig)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init application: %w", err)
	}
	return application, logger, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the daily scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if os.Getenv(gin.EnvGinMode) == "" {
			gin.SetMode(gin.ReleaseMode)
		}

		application, logger, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Serve(ctx); err != nil {
			logger.Error("server stopped", "error", err)
			return err
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process news for one date and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		stats, err := application.RunOnce(cmd.Context(), flagDate)
		if err != nil {
			return fmt.Errorf("news processing failed: %w", err)
		}
		return printJSON(stats)
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE",
	Short: "Process a manually exported article file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		stats, err := application.IngestFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ingest %s: %w", args[0], err)
		}
		if len(stats) == 0 {
			fmt.Println("No articles found in the input file.")
			return nil
		}
		return printJSON(stats)
	},
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List dates with stored insight bundles",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		dates, err := application.Store().ListDates(cmd.Context())
		if err != nil {
			return fmt.Errorf("list dates: %w", err)
		}
		for _, d := range dates {
			fmt.Println(d)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cropinsights %s (commit: %s)\n", version, commit)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
