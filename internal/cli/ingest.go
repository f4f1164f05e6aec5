package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"remo-monitor/internal/app"
	"remo-monitor/internal/models"
)

var ingestTimeout time.Duration

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch the current device list once and store one reading per device",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DB.URL == "" {
			return &models.ConfigError{Setting: "DB_URL"}
		}
		if cfg.Remo.AccessToken == "" {
			return &models.ConfigError{Setting: "NATURE_REMO_ACCESS_TOKEN"}
		}

		ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
		defer cancel()

		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.IngestService.SaveSnapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully saved data for %d device(s)\n", count)
		return nil
	},
}

func init() {
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", time.Minute, "overall deadline for the fetch and insert")
}
