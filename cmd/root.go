package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/ats-matcher/internal/jsearch"
	"github.com/spigell/ats-matcher/internal/pipeline"
)

const (
	app = "ats-matcher"
)

type Config struct {
	Search      *jsearch.SearchParams `mapstructure:"search"`
	JSearch     *JSearchConfig        `mapstructure:"jsearch"`
	Store       *StoreConfig          `mapstructure:"store"`
	Resume      *ResumeConfig         `mapstructure:"resume"`
	ResultsFile string                `mapstructure:"results-file"`
	ExcludeFile string                `mapstructure:"exclude-file"`
	Exclude     *struct {
		Companies []string
	}
	Filters *struct {
		WithoutKeywords bool `mapstructure:"without-keywords"`
	}
	Vocabulary *VocabularyConfig `mapstructure:"vocabulary"`
	Matching   *MatchingConfig   `mapstructure:"matching"`
	Pipeline   *PipelineConfig   `mapstructure:"pipeline"`
	AI         *AIConfig         `mapstructure:"ai"`
}

type JSearchConfig struct {
	APIKey            string  `mapstructure:"api-key" json:"-"`
	APIKeyFile        string  `mapstructure:"api-key-file"`
	UserAgent         string  `mapstructure:"user-agent"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ResumeConfig struct {
	Path string `mapstructure:"path"`
}

// VocabularyConfig customizes the skill list. Skills replaces the built-in
// list when set, Extra is appended to whichever list is used.
type VocabularyConfig struct {
	Skills []string `mapstructure:"skills"`
	Extra  []string `mapstructure:"extra"`
}

type MatchingConfig struct {
	Top      int     `mapstructure:"top"`
	MinScore float64 `mapstructure:"min-score"`
	Workers  int     `mapstructure:"workers"`
}

type PipelineConfig struct {
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry-delay"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Top      int           `mapstructure:"top"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-matcher fetches job postings and scores them against your resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"jsearch.api-key-file":   "RAPIDAPI_KEY_FILE",
		"jsearch.api-key":        "RAPIDAPI_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("search.query", jsearch.DefaultQuery)
	viper.SetDefault("search.location", jsearch.DefaultLocation)
	viper.SetDefault("search.num-jobs", jsearch.DefaultNumJobs)
	viper.SetDefault("jsearch.requests-per-second", 1)
	viper.SetDefault("store.path", "data/jobs.db")
	viper.SetDefault("resume.path", "data/resume.pdf")
	viper.SetDefault("results-file", "data/results.json")
	viper.SetDefault("matching.top", 10)
	viper.SetDefault("pipeline.retries", pipeline.DefaultRetries)
	viper.SetDefault("pipeline.retry-delay", pipeline.DefaultRetryDelay)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.top", 3)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it is given explicitly.
	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Search == nil {
		config.Search = &jsearch.SearchParams{}
	}
	if config.JSearch == nil {
		config.JSearch = &JSearchConfig{}
	}
	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Resume == nil {
		config.Resume = &ResumeConfig{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Pipeline == nil {
		config.Pipeline = &PipelineConfig{}
	}

	return config, nil
}
