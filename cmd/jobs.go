package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List stored jobs",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		logger, config := setup()

		db := openStore(config, logger)
		defer db.Close()

		jobs, err := db.LoadJobs(ctx)
		if err != nil {
			logger.Fatal("loading jobs", zap.Error(err))
		}

		updated, err := db.LastUpdated(ctx)
		if err != nil {
			logger.Fatal("getting last update time", zap.Error(err))
		}

		if jobs.Len() == 0 {
			logger.Info("no jobs stored", zap.String("hint", "run the fetch command first"))
			return
		}

		printJobs(os.Stdout, jobs, updated)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
