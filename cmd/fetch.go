package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch job postings from the JSearch API and save them with their keywords",
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindSearchFlags(cmd)
	},
	Run: func(_ *cobra.Command, _ []string) {
		fetch()
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	addSearchFlags(fetchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "", "job search query (default is \"Data Analyst\")")
	cmd.Flags().StringP("location", "l", "", "job location (default is \"Remote\")")
	cmd.Flags().IntP("num-jobs", "n", 0, "number of jobs to fetch (default is 20)")
}

// bindSearchFlags binds search flags of the command being executed. Several
// commands share the keys, so binding happens before run instead of in init.
func bindSearchFlags(cmd *cobra.Command) {
	viper.BindPFlag("search.query", cmd.Flags().Lookup("query"))
	viper.BindPFlag("search.location", cmd.Flags().Lookup("location"))
	viper.BindPFlag("search.num-jobs", cmd.Flags().Lookup("num-jobs"))
}

func fetch() {
	ctx := context.Background()
	logger, config := setup()

	client, err := newJSearchClient(ctx, config, logger)
	if err != nil {
		logger.Fatal("building jsearch client", zap.Error(err))
	}

	logger.Info("starting the search",
		zap.String("query", config.Search.Query),
		zap.String("location", config.Search.Location),
		zap.Int("num_jobs", config.Search.NumJobs),
	)

	jobs, err := client.Search(config.Search)
	if err != nil {
		logger.Fatal("searching jobs", zap.Error(err))
	}

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	jobs.ExtractKeywords(newVocabulary(config.Vocabulary))

	db := openStore(config, logger)
	defer db.Close()

	if err := db.SaveJobs(ctx, jobs); err != nil {
		logger.Fatal("saving jobs", zap.Error(err))
	}

	stored, err := db.Count(ctx)
	if err != nil {
		logger.Fatal("counting stored jobs", zap.Error(err))
	}

	logger.Info("jobs saved", zap.Int("count", stored), zap.String("store", config.Store.Path))
}
