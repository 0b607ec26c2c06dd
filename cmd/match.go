package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/filtering"
	"github.com/spigell/ats-matcher/internal/jsearch"
	"github.com/spigell/ats-matcher/internal/matching"
	"github.com/spigell/ats-matcher/internal/resume"
)

const (
	PromptShowTop             = "Show top matches"
	PromptReportByCompany     = "Report by company"
	PromptMatchesToFile       = "Dump matches to file"
	PromptAppendToExcludeFile = "Append all jobs to exclude file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowTop, PromptReportByCompany, PromptMatchesToFile, PromptAppendToExcludeFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score stored jobs against the resume and show the ranking",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("auto-approve", "y", false, "print the top matches and exit without the menu")
	matchCmd.Flags().StringP("resume", "r", "", "resume file (pdf, txt or md). Default is data/resume.pdf")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with jobs to exclude. Default is unset.")
	matchCmd.Flags().IntP("top", "t", 0, "number of matches to show (default is 10)")
	matchCmd.Flags().Bool("ai", false, "review the top matches with the configured AI provider")

	viper.BindPFlag("resume.path", matchCmd.Flags().Lookup("resume"))
	viper.BindPFlag("exclude-file", matchCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("matching.top", matchCmd.Flags().Lookup("top"))
	viper.BindPFlag("ai.enabled", matchCmd.Flags().Lookup("ai"))
}

func match(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	logger.Info("starting the ats-matcher", zap.String("version", version))

	db := openStore(config, logger)
	jobs, err := db.LoadJobs(ctx)
	db.Close()
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs stored"), zap.String("hint", "run the fetch command first"))
		return
	}

	vocabulary := newVocabulary(config.Vocabulary)

	r, err := resume.Load(config.Resume.Path, vocabulary)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err), zap.String("path", config.Resume.Path))
	}
	if r.Text == "" {
		logger.Fatal("could not extract text from resume", zap.String("path", r.Path))
	}

	logger.Info("extracted resume keywords",
		zap.Int("count", r.Keywords.Len()),
		zap.Strings("keywords", r.Keywords.Sorted()),
	)

	jobs, err = filtering.Run(ctx, filteringConfig(config), filtering.Deps{Logger: logger}, filtering.Default(), jobs)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	matches, err := matching.Rank(ctx, r.Keywords, jobs, rankOptions(config))
	if err != nil {
		logger.Fatal("ranking jobs", zap.Error(err))
	}

	review(ctx, config, logger, r.Text, matches)

	if config.ResultsFile != "" {
		if err := matches.ToFile(config.ResultsFile); err != nil {
			logger.Fatal("saving results", zap.Error(err))
		}
		logger.Info("results saved", zap.String("path", config.ResultsFile), zap.Int("count", matches.Len()))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		printMatches(os.Stdout, matches.Top(config.Matching.Top))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of matches", zap.Int("count", matches.Len()))

		if err := handleAction(action, logger, config, matches); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, matches *matching.Matches) error {
	switch action {
	case PromptShowTop:
		printMatches(os.Stdout, matches.Top(config.Matching.Top))
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(matches.Jobs().ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", matches.Len()))
		return nil
	case PromptMatchesToFile:
		filename, err := matches.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.ExcludeFile, matches.Jobs())
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func appendToExcludeFile(logger *zap.Logger, path string, jobs *jsearch.Jobs) error {
	if path == "" {
		logger.Warn("exclude file is not set", zap.String("hint", "use --exclude-file or the exclude-file key"))
		return nil
	}

	excluded, err := jsearch.GetExcludedJobsFromFile(path)
	if err != nil {
		return fmt.Errorf("reading exclude file: %w", err)
	}

	before := len(excluded.Items)
	excluded.Append(jobs.ToExcluded())

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("writing exclude file: %w", err)
	}

	logger.Info("jobs appended to exclude file",
		zap.String("path", path),
		zap.Int("added", len(excluded.Items)-before),
		zap.Int("total", len(excluded.Items)),
	)
	return nil
}
