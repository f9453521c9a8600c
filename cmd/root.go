package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/krevetko/job-scout/internal/ai/gemini"
	"github.com/krevetko/job-scout/internal/cv"
	"github.com/krevetko/job-scout/internal/jobs"
	"github.com/krevetko/job-scout/internal/retry"
	"github.com/krevetko/job-scout/internal/search"
	"github.com/krevetko/job-scout/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "job-scout"
)

type Config struct {
	Server *struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	AI        *AIConfig        `mapstructure:"ai"`
	JobSearch *JobSearchConfig `mapstructure:"job-search"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile  string `mapstructure:"api-key-file"`
	Model       string `mapstructure:"model"`
	MaxRetries  int    `mapstructure:"max-retries"`
	BaseDelayMS int    `mapstructure:"base-delay-ms"`
}

type JobSearchConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-scout analyzes a CV and finds relevance-ranked job postings for it",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gemini-api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("jobsearch-api-key-file", "JOBSEARCH_API_KEY_FILE"); err != nil {
		log.Fatalf("binding JOBSEARCH_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-scout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config is fine: secrets can come from the
		// environment. An explicitly requested or broken file is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
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
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.JobSearch == nil {
		config.JobSearch = &JobSearchConfig{}
	}

	return config, nil
}

// buildOrchestrator wires the whole pipeline from configuration: the Gemini
// generator, the fact extractor with its retry policy, and the job client.
func buildOrchestrator(ctx context.Context, config *Config, logger *zap.Logger) (*search.Orchestrator, error) {
	geminiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: firstNonEmpty(config.AI.Gemini.APIKeyFile, viper.GetString("gemini-api-key-file")),
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, geminiKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("building gemini generator: %w", err)
	}

	policy := retry.DefaultPolicy()
	if config.AI.Gemini.MaxRetries > 0 {
		policy.MaxAttempts = config.AI.Gemini.MaxRetries
	}
	if config.AI.Gemini.BaseDelayMS > 0 {
		policy.BaseDelay = time.Duration(config.AI.Gemini.BaseDelayMS) * time.Millisecond
	}

	extractor := cv.NewExtractor(generator, logger, policy)

	jobsKey, err := secrets.Load(secrets.Source{
		Name: "job search api key",
		File: firstNonEmpty(config.JobSearch.APIKeyFile, viper.GetString("jobsearch-api-key-file")),
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set job-search.api-key-file or JOBSEARCH_API_KEY_FILE)", err)
	}

	client := jobs.NewClient(logger, jobsKey)

	return search.New(extractor, client, logger), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
