package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"discovery-sync/core/config"
	"discovery-sync/core/logger"
)

// validateCmd checks that both sides accept our credentials.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate source and catalog credentials",
	Long:  `Checks access to the discovery source and the catalog without changing anything.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		feat := buildFeature(cfg, logg)
		if err := feat.Service().Validate(context.Background()); err != nil {
			logg.Error("Credential validation failed", zap.Error(err))
			_ = logg.Sync()
			os.Exit(1)
		}
		logg.Info("Credentials accepted by source and catalog")
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
