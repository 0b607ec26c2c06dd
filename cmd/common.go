package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/ats-matcher/internal/ai"
	"github.com/spigell/ats-matcher/internal/ai/gemini"
	"github.com/spigell/ats-matcher/internal/filtering"
	"github.com/spigell/ats-matcher/internal/jsearch"
	"github.com/spigell/ats-matcher/internal/keywords"
	"github.com/spigell/ats-matcher/internal/logger"
	"github.com/spigell/ats-matcher/internal/matching"
	"github.com/spigell/ats-matcher/internal/secrets"
	"github.com/spigell/ats-matcher/internal/store"
)

// setup builds the logger and reads the config. Both are required by every command except version.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return l, config
}

func newVocabulary(cfg *VocabularyConfig) *keywords.Vocabulary {
	if cfg == nil {
		return keywords.Default()
	}

	skills := keywords.DefaultSkills
	if len(cfg.Skills) > 0 {
		skills = cfg.Skills
	}

	return keywords.NewVocabulary(skills...).Extend(cfg.Extra...)
}

func openStore(config *Config, logger *zap.Logger) *store.Store {
	db, err := store.Open(config.Store.Path)
	if err != nil {
		logger.Fatal("opening job store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	return db
}

func newJSearchClient(ctx context.Context, config *Config, logger *zap.Logger) (*jsearch.Client, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "rapidapi key",
		Value: config.JSearch.APIKey,
		File:  config.JSearch.APIKeyFile,
		Env:   "RAPIDAPI_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set RAPIDAPI_KEY_FILE, RAPIDAPI_KEY or jsearch.api-key-file)", err)
	}

	client := jsearch.New(ctx, logger, apiKey)
	if config.JSearch.UserAgent != "" {
		client.UserAgent = config.JSearch.UserAgent
	}
	if rps := config.JSearch.RequestsPerSecond; rps > 0 {
		client.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	return client, nil
}

func filteringConfig(config *Config) *filtering.Config {
	cfg := &filtering.Config{ExcludeFile: config.ExcludeFile}
	if config.Exclude != nil {
		cfg.Companies = config.Exclude.Companies
	}
	if config.Filters != nil {
		cfg.WithoutKeywords = config.Filters.WithoutKeywords
	}
	return cfg
}

func rankOptions(config *Config) matching.RankOptions {
	return matching.RankOptions{
		MinScore: config.Matching.MinScore,
		Workers:  config.Matching.Workers,
	}
}

func newReviewer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Reviewer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, genLogger, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries)
	if err != nil {
		return nil, err
	}

	return gemini.NewReviewer(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}

// review runs the optional AI review over the top matches.
func review(ctx context.Context, config *Config, logger *zap.Logger, resumeText string, matches *matching.Matches) {
	if config.AI == nil || !config.AI.Enabled || matches.Len() == 0 {
		return
	}

	reviewer, err := newReviewer(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping ai review", zap.Error(err))
		return
	}

	reviewed := ai.ReviewTop(ctx, reviewer, logger, resumeText, matches, config.AI.Top)
	logger.Info("ai review finished", zap.Int("reviewed", reviewed), zap.Int("requested", config.AI.Top))
}

func printMatches(w io.Writer, matches []*matching.Match) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tFIT\tTITLE\tCOMPANY\tLOCATION\tMISSING")
	for _, match := range matches {
		fmt.Fprintf(tw, "%d\t%.2f%%\t%s\t%s\t%s\t%s\t%s\n",
			match.Rank,
			match.Result.Score,
			matching.Band(match.Result.Score),
			match.Job.Title,
			match.Job.Company,
			match.Job.Location,
			strings.Join(match.Result.Missing.Sorted(), ", "),
		)
	}
	tw.Flush()

	for _, match := range matches {
		if match.Advice == nil {
			continue
		}
		fmt.Fprintf(w, "\n#%d %s at %s\n", match.Rank, match.Job.Title, match.Job.Company)
		if match.Advice.Error != "" {
			fmt.Fprintf(w, "  review failed: %s\n", match.Advice.Error)
			continue
		}
		fmt.Fprintf(w, "  %s\n", match.Advice.Summary)
		for _, suggestion := range match.Advice.Suggestions {
			fmt.Fprintf(w, "  - %s\n", suggestion)
		}
	}
}

func printJobs(w io.Writer, jobs *jsearch.Jobs, updated time.Time) {
	if !updated.IsZero() {
		fmt.Fprintf(w, "last updated: %s\n\n", updated.Format(time.RFC3339))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tKEYWORDS")
	for _, job := range jobs.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", job.ID, job.Title, job.Company, job.Location, job.Keywords.Len())
	}
	tw.Flush()
}
