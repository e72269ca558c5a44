package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tsavowest/ai-interviewer/internal/ai/gemini"
	"github.com/tsavowest/ai-interviewer/internal/interview"
	"github.com/tsavowest/ai-interviewer/internal/secrets"
	"github.com/tsavowest/ai-interviewer/internal/server"
)

const (
	app = "ai-interviewer"

	geminiKeyEnv     = "GEMINI_API_KEY"
	geminiKeyFileEnv = "GEMINI_API_KEY_FILE"
)

type Config struct {
	// Interview overrides the built-in delivery-driver registry. When unset
	// the default role configuration is used.
	Interview  *interview.Registry `mapstructure:"interview"`
	AI         *AIConfig           `mapstructure:"ai"`
	Server     *server.Config      `mapstructure:"server"`
	Evaluation *EvaluationConfig   `mapstructure:"evaluation"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type EvaluationConfig struct {
	MaxFollowups int                       `mapstructure:"max-followups"`
	Fallback     *interview.FallbackPolicy `mapstructure:"fallback"`
}

var (
	// Used for flags.
	cfgFile string
	jobFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ai-interviewer conducts structured job-qualification interviews backed by an LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env is optional; environment variables win when both are present.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key-file", geminiKeyFileEnv); err != nil {
		log.Fatalf("binding %s environment variable: %v", geminiKeyFileEnv, err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ai-interviewer.yaml in current directory)")
	rootCmd.PersistentFlags().StringVar(&jobFile, "job", "", "a job profile file overriding the built-in role")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("model", "m", "", "gemini model id")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("ai.gemini.model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// An explicitly requested config file must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// The built-in role configuration covers the no-config case.
	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
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

	return config, nil
}

// resolveRegistry returns the configured interview registry. A job profile
// file wins over the main config; without either the built-in delivery-driver
// role is used.
func resolveRegistry(config *Config) (*interview.Registry, error) {
	registry := config.Interview
	if registry == nil {
		registry = interview.DefaultRegistry()
	}

	if jobFile != "" {
		loaded, err := loadJobProfile(jobFile, registry)
		if err != nil {
			return nil, err
		}
		registry = loaded
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}

	return registry, nil
}

// loadJobProfile reads a standalone job profile file and decodes it on top of
// the base registry. Keys absent from the profile keep their base values.
func loadJobProfile(path string, base *interview.Registry) (*interview.Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading job profile %q: %w", path, err)
	}

	registry := *base
	if err := mapstructure.Decode(v.AllSettings(), &registry); err != nil {
		return nil, fmt.Errorf("decoding job profile %q: %w", path, err)
	}

	return &registry, nil
}

// resolveEvaluation returns the follow-up budget and the gateway-failure
// fallback policy.
func resolveEvaluation(config *Config) (int, interview.FallbackPolicy) {
	maxFollowups := interview.DefaultMaxFollowups
	policy := interview.DefaultFallbackPolicy()

	if config.Evaluation == nil {
		return maxFollowups, policy
	}

	if config.Evaluation.MaxFollowups > 0 {
		maxFollowups = config.Evaluation.MaxFollowups
	}
	if config.Evaluation.Fallback != nil {
		policy = *config.Evaluation.Fallback
	}

	return maxFollowups, policy
}

// newGateway builds the Gemini completion gateway from headline config.
func newGateway(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Client, error) {
	geminiCfg := &GeminiConfig{}
	if config.AI != nil {
		if provider := config.AI.Provider; provider != "" && provider != "gemini" {
			return nil, fmt.Errorf("unsupported ai provider: %s", provider)
		}
		if config.AI.Gemini != nil {
			geminiCfg = config.AI.Gemini
		}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: geminiCfg.APIKey,
		File:  geminiCfg.APIKeyFile,
		Env:   geminiKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key, ai.gemini.api-key-file or %s)", err, geminiKeyEnv)
	}

	return gemini.NewClient(ctx, apiKey, geminiCfg.Model, geminiCfg.MaxRetries, logger)
}
