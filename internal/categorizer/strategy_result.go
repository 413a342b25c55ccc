package categorizer

import (
	"fmt"
	"strings"
)

// StrategyResult records one strategy attempt.
type StrategyResult struct {
	Strategy string
	Category string
	Found    bool
	Err      error
}

// StrategyResults aggregates the attempts of every strategy in chain order.
type StrategyResults struct {
	Results []StrategyResult
}

// Best returns the first successful attempt.
func (sr StrategyResults) Best() (StrategyResult, bool) {
	for _, r := range sr.Results {
		if r.Found && r.Err == nil {
			return r, true
		}
	}
	return StrategyResult{}, false
}

// Errors returns the errors of failed attempts, prefixed with the strategy name.
func (sr StrategyResults) Errors() []error {
	var errs []error
	for _, r := range sr.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", r.Strategy, r.Err))
		}
	}
	return errs
}

// Summary renders the attempts as "name:status" pairs.
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		status := "no_match"
		switch {
		case r.Err != nil:
			status = "failed"
		case r.Found:
			status = "success"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", r.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
