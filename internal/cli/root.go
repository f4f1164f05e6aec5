package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"remo-monitor/internal/config"
	"remo-monitor/internal/logging"
)

const appName = "remo-monitor"

var (
	Version = "dev"

	envFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Nature Remo sensor collector and dashboard API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil {
			if envFile != ".env" {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		}

		cfg = config.Load()
		logger = logging.New(cfg, Version, appName)
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command and is called by main.main(). Without a subcommand it serves.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(serveCmd, ingestCmd, migrateCmd)
}
