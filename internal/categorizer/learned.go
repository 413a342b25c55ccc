package categorizer

import (
	"context"
	"regexp"
	"strings"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/parsererror"

	"github.com/jbrukh/bayesian"
)

// StrategyLearned is the name of the trained model strategy.
const StrategyLearned = "learned"

var tokenSplit = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Tokenize lower-cases description and splits it into letter/digit words,
// dropping pure numbers such as reference ids.
func Tokenize(description string) []string {
	var tokens []string
	for _, t := range tokenSplit.Split(strings.ToLower(description), -1) {
		if t == "" || strings.Trim(t, "0123456789") == "" {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// LearnedStrategy classifies descriptions with a naive Bayes model trained
// elsewhere. The model is only read, so one instance may serve concurrent
// parses. Only strict winners are returned; ties are treated as unknown.
type LearnedStrategy struct {
	classifier *bayesian.Classifier
	logger     logging.Logger
}

// NewLearnedStrategy wraps a trained classifier.
func NewLearnedStrategy(classifier *bayesian.Classifier, logger logging.Logger) *LearnedStrategy {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LearnedStrategy{classifier: classifier, logger: logger}
}

// LoadLearnedStrategy reads a model written by bayesian.Classifier.WriteToFile.
func LoadLearnedStrategy(path string, logger logging.Logger) (*LearnedStrategy, error) {
	classifier, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return nil, &parsererror.StoreError{Path: path, Op: "load model", Err: err}
	}
	return NewLearnedStrategy(classifier, logger), nil
}

// Name implements Strategy.
func (s *LearnedStrategy) Name() string { return StrategyLearned }

// Categorize implements Strategy.
func (s *LearnedStrategy) Categorize(_ context.Context, description string) (string, bool, error) {
	if s.classifier == nil {
		return "", false, nil
	}
	tokens := Tokenize(description)
	if len(tokens) == 0 {
		return "", false, nil
	}

	_, inx, strict := s.classifier.LogScores(tokens)
	if !strict {
		s.logger.Debug("Model has no strict winner", logging.F(logging.FieldReason, "tie"))
		return "", false, nil
	}
	return string(s.classifier.Classes[inx]), true, nil
}
