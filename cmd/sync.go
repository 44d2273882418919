package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"discovery-sync/core/config"
	"discovery-sync/core/logger"
	"discovery-sync/feature/discovery"
)

// syncCmd runs one synchronization from the command line.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization",
	Long:  `Runs a full sites/software/assets synchronization and prints the result.`,
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
		zap.ReplaceGlobals(logg)

		feat := buildFeature(cfg, logg)
		res, runErr := feat.Service().RunSync(context.Background())

		if res != nil {
			out, err := json.MarshalIndent(res, "", "  ")
			if err == nil {
				fmt.Println(string(out))
			}
		}

		if runErr != nil {
			logg.Error("Synchronization aborted",
				zap.String("status", discovery.StatusFor(runErr)),
				zap.Error(runErr))
			_ = logg.Sync()
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
