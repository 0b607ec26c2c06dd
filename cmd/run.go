package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the whole pipeline: fetch jobs, extract keywords, process the resume and calculate matches",
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindSearchFlags(cmd)
		viper.BindPFlag("resume.path", cmd.Flags().Lookup("resume"))
		viper.BindPFlag("pipeline.retries", cmd.Flags().Lookup("retries"))
		viper.BindPFlag("pipeline.retry-delay", cmd.Flags().Lookup("retry-delay"))
	},
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addSearchFlags(runCmd)
	runCmd.Flags().StringP("resume", "r", "", "resume file (pdf, txt or md). Default is data/resume.pdf")
	runCmd.Flags().Int("retries", pipeline.DefaultRetries, "extra attempts for a failed task")
	runCmd.Flags().Duration("retry-delay", pipeline.DefaultRetryDelay, "delay between task attempts")
}

func run() {
	ctx := context.Background()
	logger, config := setup()

	logger.Info("starting the ats-matcher pipeline", zap.String("version", version))

	client, err := newJSearchClient(ctx, config, logger)
	if err != nil {
		logger.Fatal("building jsearch client", zap.Error(err))
	}

	db := openStore(config, logger)
	defer db.Close()

	p := pipeline.New(pipeline.Config{
		Search:      *config.Search,
		ResumePath:  config.Resume.Path,
		ResultsFile: config.ResultsFile,
		Vocabulary:  newVocabulary(config.Vocabulary),
		Rank:        rankOptions(config),
		Filters:     filteringConfig(config),
		Retries:     config.Pipeline.Retries,
		RetryDelay:  config.Pipeline.RetryDelay,
	}, logger, client, db, nil)

	state, err := p.Run(ctx)
	if err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}

	if config.AI != nil && config.AI.Enabled {
		review(ctx, config, logger, state.Resume.Text, state.Matches)
		if config.ResultsFile != "" {
			if err := state.Matches.ToFile(config.ResultsFile); err != nil {
				logger.Fatal("saving reviewed results", zap.Error(err))
			}
		}
	}

	printMatches(os.Stdout, state.Matches.Top(config.Matching.Top))
}
