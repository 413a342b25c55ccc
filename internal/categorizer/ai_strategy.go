package categorizer

import (
	"context"
	"sort"
	"strings"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
	"fjacquet/bankstmt/internal/parsererror"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// StrategyAI is the name of the AI strategy.
const StrategyAI = "ai"

// AIClient asks a language model to pick one of categories for a description.
// The answer is free text; AIStrategy maps it onto a known category.
type AIClient interface {
	Classify(ctx context.Context, description string, categories []string) (string, error)
}

// AIStrategy categorizes with an AIClient, restricted to a known category list.
type AIStrategy struct {
	client     AIClient
	categories []string
	logger     logging.Logger
}

// NewAIStrategy creates an AIStrategy. An empty category list selects the
// categories of DefaultRules.
func NewAIStrategy(client AIClient, categories []string, logger logging.Logger) *AIStrategy {
	if logger == nil {
		logger = logging.Nop()
	}
	if len(categories) == 0 {
		for _, r := range DefaultRules() {
			categories = append(categories, r.Name)
		}
	}
	return &AIStrategy{client: client, categories: categories, logger: logger}
}

// Name implements Strategy.
func (s *AIStrategy) Name() string { return StrategyAI }

// Categorize implements Strategy.
func (s *AIStrategy) Categorize(ctx context.Context, description string) (string, bool, error) {
	if s.client == nil || strings.TrimSpace(description) == "" {
		return "", false, nil
	}

	answer, err := s.client.Classify(ctx, description, s.categories)
	if err != nil {
		return "", false, &parsererror.CategorizationError{Description: description, Strategy: s.Name(), Err: err}
	}

	category, ok := MatchCategory(answer, s.categories)
	if !ok || category == models.CategoryUncategorized {
		s.logger.Debug("AI answer not mapped to a category",
			logging.F(logging.FieldStrategy, s.Name()),
			logging.F(logging.FieldReason, answer))
		return "", false, nil
	}
	return category, true, nil
}

// MatchCategory maps a free-text answer onto categories: an exact
// case-insensitive match first, then the closest fuzzy match.
func MatchCategory(answer string, categories []string) (string, bool) {
	answer = strings.Trim(strings.TrimSpace(answer), "\"'`*.")
	if answer == "" {
		return "", false
	}
	for _, c := range categories {
		if strings.EqualFold(c, answer) {
			return c, true
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(answer, categories)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}
