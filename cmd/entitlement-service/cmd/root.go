package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/config"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
)

var (
	configFile string
	envFile    string
	logLevel   string

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "entitlement-service",
	Short: "Purchase entitlement and coupon pricing service",
	Long: `entitlement-service answers which paid predictors and counseling
products a user can currently open, validates coupons against the pricing
API, and decides ad placements per visitor session.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI, cancelling the command context on SIGINT/SIGTERM.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	rootCmd.AddCommand(serveCmd, checkCmd, productsCmd, couponCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(envFile, configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger = logging.New(os.Stderr, cfg.Log)
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), &logger))
	return nil
}
