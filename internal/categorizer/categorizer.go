// Package categorizer assigns a spending category to transaction descriptions.
// A Categorizer runs an ordered chain of strategies (user corrections, keyword
// rules, a learned model, an AI model); the first strategy that recognizes a
// description wins and unrecognized descriptions are Uncategorized.
package categorizer

import (
	"context"
	"strings"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
)

// StrategyDefault names the result given when no strategy matched.
const StrategyDefault = "default"

// Result is the outcome of categorizing one description.
type Result struct {
	Category string
	Strategy string
}

// Categorizer is safe for concurrent use when its strategies are.
type Categorizer struct {
	strategies []Strategy
	logger     logging.Logger
}

// New creates a Categorizer running strategies in the given order. Nil
// strategies are skipped.
func New(logger logging.Logger, strategies ...Strategy) *Categorizer {
	if logger == nil {
		logger = logging.Nop()
	}
	c := &Categorizer{logger: logger}
	for _, s := range strategies {
		if s != nil {
			c.strategies = append(c.strategies, s)
		}
	}
	return c
}

// Strategies returns the names of the configured strategies in chain order.
func (c *Categorizer) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Classify returns the category of description.
func (c *Categorizer) Classify(ctx context.Context, description string) string {
	return c.Categorize(ctx, description).Category
}

// Categorize runs the chain until a strategy recognizes description. Strategy
// errors are logged and never abort the chain.
func (c *Categorizer) Categorize(ctx context.Context, description string) Result {
	description = strings.TrimSpace(description)
	if description == "" {
		return Result{Category: models.CategoryUncategorized, Strategy: StrategyDefault}
	}

	for _, s := range c.strategies {
		category, found, err := s.Categorize(ctx, description)
		if err != nil {
			c.logger.WithError(err).Warn("Categorization strategy failed",
				logging.F(logging.FieldStrategy, s.Name()))
			continue
		}
		if found {
			c.logger.Debug("Description categorized",
				logging.F(logging.FieldStrategy, s.Name()),
				logging.F(logging.FieldCategory, category))
			return Result{Category: category, Strategy: s.Name()}
		}
	}
	return Result{Category: models.CategoryUncategorized, Strategy: StrategyDefault}
}

// Explain runs every strategy on description and reports each attempt.
func (c *Categorizer) Explain(ctx context.Context, description string) StrategyResults {
	var results StrategyResults
	description = strings.TrimSpace(description)
	for _, s := range c.strategies {
		r := StrategyResult{Strategy: s.Name()}
		if description != "" {
			r.Category, r.Found, r.Err = s.Categorize(ctx, description)
		}
		results.Results = append(results.Results, r)
	}
	return results
}
