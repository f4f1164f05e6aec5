package cli

import (
	"context"

	"github.com/spf13/cobra"

	"remo-monitor/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the sensor_data table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.DB.AutoMigrate = false

		a, err := app.New(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Migrate(); err != nil {
			return err
		}
		logger.Info("migration completed")
		return nil
	},
}
