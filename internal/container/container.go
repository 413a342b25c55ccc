// Package container wires the bankstmt components from a Config.
package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fjacquet/bankstmt/internal/categorizer"
	"fjacquet/bankstmt/internal/config"
	"fjacquet/bankstmt/internal/export"
	"fjacquet/bankstmt/internal/layout"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/pdftext"
	"fjacquet/bankstmt/internal/statement"
	"fjacquet/bankstmt/internal/store"

	"github.com/shopspring/decimal"
)

// Container holds the application dependencies. It is immutable after
// creation; everything is reached through getters.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	registry    *layout.Registry
	rules       *store.RuleStore
	corrections *store.CorrectionStore
	learned     *categorizer.CorrectionStrategy
	categorizer *categorizer.Categorizer
	aiClient    *categorizer.GeminiClient
	extractor   pdftext.Extractor
	parser      *statement.Parser
	exporter    *export.Exporter
}

// Option customizes NewContainer.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithExtractor replaces the PDF text extractor.
func WithExtractor(ext pdftext.Extractor) Option {
	return func(c *Container) { c.extractor = ext }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg, registry: layout.Default()}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}
	if c.extractor == nil {
		c.extractor = pdftext.NewAutoExtractor(c.logger)
	}

	c.rules = store.NewRuleStore(cfg.Categorization.RulesFile, c.logger)
	c.corrections = store.NewCorrectionStore(cfg.Categorization.CorrectionsFile, c.logger)

	strategies, err := c.buildStrategies(ctx)
	if err != nil {
		return nil, err
	}
	c.categorizer = categorizer.New(c.logger, strategies...)

	c.parser = statement.New(c.registry, c.categorizer, parserOptions(cfg), c.logger)
	c.exporter = export.New(export.Options{
		Format:     cfg.Export.Format,
		SheetName:  cfg.Export.SheetName,
		DateFormat: cfg.Export.DateFormat,
		Delimiter:  cfg.Delimiter(),
	}, c.logger)

	c.logger.Info("Container initialized successfully",
		logging.F("strategies", c.categorizer.Strategies()),
		logging.F("ai_enabled", c.aiClient != nil))
	return c, nil
}

func parserOptions(cfg *config.Config) statement.Options {
	opts := statement.DefaultOptions()
	opts.BlankLineStop = cfg.Parsing.BlankLineStop
	opts.Lookahead = cfg.Parsing.DetectLookahead
	opts.Tolerance = decimal.NewFromFloat(cfg.Parsing.Tolerance)
	opts.Snippet = cfg.Parsing.DiagnosticSnippet
	if cfg.Categorization.IncomeThreshold > 0 {
		opts.IncomeThreshold = decimal.NewFromFloat(cfg.Categorization.IncomeThreshold)
	}
	return opts
}

// buildStrategies creates the categorization chain in configured order. A
// missing model file disables the learned strategy and a disabled AI section
// skips the AI strategy; broken rule or correction files are errors.
func (c *Container) buildStrategies(ctx context.Context) ([]categorizer.Strategy, error) {
	cfg := c.config
	var strategies []categorizer.Strategy

	rules, err := c.rules.LoadRules()
	if err != nil {
		return nil, err
	}
	ruleStrategy := categorizer.NewRuleStrategy(rules, c.logger)

	for _, name := range cfg.Categorization.Strategies {
		switch name {
		case config.StrategyCorrections:
			corrections, err := c.corrections.LoadCorrections()
			if err != nil {
				return nil, err
			}
			c.learned = categorizer.NewCorrectionStrategy(corrections)
			strategies = append(strategies, c.learned)

		case config.StrategyRules:
			strategies = append(strategies, ruleStrategy)

		case config.StrategyLearned:
			path, err := store.FindConfigFile(cfg.Categorization.ModelFile)
			if errors.Is(err, os.ErrNotExist) {
				c.logger.Debug("No classifier model, learned strategy disabled",
					logging.F(logging.FieldFile, cfg.Categorization.ModelFile))
				continue
			}
			learned, err := categorizer.LoadLearnedStrategy(path, c.logger)
			if err != nil {
				c.logger.WithError(err).Warn("Classifier model unusable, learned strategy disabled")
				continue
			}
			strategies = append(strategies, learned)

		case config.StrategyAI:
			if !cfg.AI.Enabled {
				continue
			}
			client, err := categorizer.NewGeminiClient(ctx, categorizer.GeminiOptions{
				APIKey:            cfg.AI.APIKey,
				Model:             cfg.AI.Model,
				RequestsPerMinute: cfg.AI.RequestsPerMinute,
				Timeout:           time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
			}, c.logger)
			if err != nil {
				return nil, err
			}
			c.aiClient = client
			strategies = append(strategies, categorizer.NewAIStrategy(client, ruleStrategy.Categories(), c.logger))
		}
	}
	return strategies, nil
}

// GetLogger returns the container's logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration the container was built from.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRegistry returns the layout registry.
func (c *Container) GetRegistry() *layout.Registry {
	return c.registry
}

// GetCategorizer returns the categorization chain.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetParser returns the statement parser.
func (c *Container) GetParser() *statement.Parser {
	return c.parser
}

// GetExtractor returns the page text extractor.
func (c *Container) GetExtractor() pdftext.Extractor {
	return c.extractor
}

// GetExporter returns the table exporter.
func (c *Container) GetExporter() *export.Exporter {
	return c.exporter
}

// GetCorrectionStore returns the corrections file store.
func (c *Container) GetCorrectionStore() *store.CorrectionStore {
	return c.corrections
}

// GetRuleStore returns the rule table store.
func (c *Container) GetRuleStore() *store.RuleStore {
	return c.rules
}

// GetCorrections returns the in-memory corrections strategy, or nil when
// corrections are not part of the chain.
func (c *Container) GetCorrections() *categorizer.CorrectionStrategy {
	return c.learned
}

// Close releases the AI client, if any.
func (c *Container) Close() error {
	if c.aiClient != nil {
		if err := c.aiClient.Close(); err != nil {
			return fmt.Errorf("failed to close AI client: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
