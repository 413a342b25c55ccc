// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BANKSTMT_LOG_LEVEL.
const EnvPrefix = "BANKSTMT"

// Strategy names accepted in categorization.strategies.
const (
	StrategyCorrections = "corrections"
	StrategyRules       = "rules"
	StrategyLearned     = "learned"
	StrategyAI          = "ai"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Parsing struct {
		BlankLineStop     int     `mapstructure:"blank_line_stop" yaml:"blank_line_stop"`
		DetectLookahead   int     `mapstructure:"detect_lookahead" yaml:"detect_lookahead"`
		Tolerance         float64 `mapstructure:"tolerance" yaml:"tolerance"`
		DiagnosticSnippet int     `mapstructure:"diagnostic_snippet" yaml:"diagnostic_snippet"`
	} `mapstructure:"parsing" yaml:"parsing"`

	Categorization struct {
		Strategies      []string `mapstructure:"strategies" yaml:"strategies"`
		IncomeThreshold float64  `mapstructure:"income_threshold" yaml:"income_threshold"`
		RulesFile       string   `mapstructure:"rules_file" yaml:"rules_file"`
		CorrectionsFile string   `mapstructure:"corrections_file" yaml:"corrections_file"`
		ModelFile       string   `mapstructure:"model_file" yaml:"model_file"`
	} `mapstructure:"categorization" yaml:"categorization"`

	AI struct {
		Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
		Model             string `mapstructure:"model" yaml:"model"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey            string `mapstructure:"api_key" yaml:"-"` // never serialized
	} `mapstructure:"ai" yaml:"ai"`

	Export struct {
		Format       string `mapstructure:"format" yaml:"format"`
		SheetName    string `mapstructure:"sheet_name" yaml:"sheet_name"`
		CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
		DateFormat   string `mapstructure:"date_format" yaml:"date_format"`
	} `mapstructure:"export" yaml:"export"`
}

// Load builds the configuration from defaults, an optional config file,
// BANKSTMT_* environment variables and GEMINI_API_KEY. When configFile is empty
// config.yaml is searched in $HOME/.bankstmt, ./.bankstmt and the working directory.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bankstmt")
		v.AddConfigPath(".bankstmt")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("parsing.blank_line_stop", 3)
	v.SetDefault("parsing.detect_lookahead", 10)
	v.SetDefault("parsing.tolerance", 0.01)
	v.SetDefault("parsing.diagnostic_snippet", 100)

	v.SetDefault("categorization.strategies", []string{
		StrategyCorrections, StrategyRules, StrategyLearned, StrategyAI,
	})
	v.SetDefault("categorization.income_threshold", 5000.0)
	v.SetDefault("categorization.rules_file", "categories.yaml")
	v.SetDefault("categorization.corrections_file", "corrections.csv")
	v.SetDefault("categorization.model_file", "classifier.model")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("export.format", "xlsx")
	v.SetDefault("export.sheet_name", "Transactions")
	v.SetDefault("export.csv_delimiter", ",")
	v.SetDefault("export.date_format", "2006-01-02")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Parsing.BlankLineStop < 1 {
		return fmt.Errorf("parsing.blank_line_stop must be positive, got: %d", config.Parsing.BlankLineStop)
	}
	if config.Parsing.DetectLookahead < 1 {
		return fmt.Errorf("parsing.detect_lookahead must be positive, got: %d", config.Parsing.DetectLookahead)
	}
	if config.Parsing.Tolerance < 0 {
		return fmt.Errorf("parsing.tolerance must not be negative, got: %f", config.Parsing.Tolerance)
	}
	if config.Parsing.DiagnosticSnippet < 1 {
		return fmt.Errorf("parsing.diagnostic_snippet must be positive, got: %d", config.Parsing.DiagnosticSnippet)
	}

	if config.Categorization.IncomeThreshold < 0 {
		return fmt.Errorf("categorization.income_threshold must not be negative, got: %f", config.Categorization.IncomeThreshold)
	}
	for _, name := range config.Categorization.Strategies {
		switch name {
		case StrategyCorrections, StrategyRules, StrategyLearned, StrategyAI:
		default:
			return fmt.Errorf("unknown categorization strategy: %s", name)
		}
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.RequestsPerMinute < 1 || config.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 1 and 1000, got: %d", config.AI.RequestsPerMinute)
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	switch config.Export.Format {
	case "xlsx", "csv":
	default:
		return fmt.Errorf("invalid export format: %s (must be 'xlsx' or 'csv')", config.Export.Format)
	}
	if len([]rune(config.Export.CSVDelimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.Export.CSVDelimiter)
	}
	if strings.TrimSpace(config.Export.SheetName) == "" {
		return fmt.Errorf("export.sheet_name must not be empty")
	}

	return nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.Export.CSVDelimiter)[0]
}

// HasStrategy reports whether name is part of the configured categorization chain.
func (c *Config) HasStrategy(name string) bool {
	for _, s := range c.Categorization.Strategies {
		if s == name {
			return true
		}
	}
	return false
}
