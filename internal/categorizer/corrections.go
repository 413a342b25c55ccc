package categorizer

import (
	"context"
	"strings"
	"sync"

	"fjacquet/bankstmt/internal/models"
)

// StrategyCorrections is the name of the user correction strategy.
const StrategyCorrections = "corrections"

// CorrectionStrategy returns the category a user assigned to the exact same
// description. Descriptions compare case-insensitively; the latest
// correction of a description wins.
type CorrectionStrategy struct {
	mu      sync.RWMutex
	mapping map[string]string
}

// NewCorrectionStrategy indexes corrections in order.
func NewCorrectionStrategy(corrections []models.Correction) *CorrectionStrategy {
	s := &CorrectionStrategy{mapping: make(map[string]string, len(corrections))}
	for _, c := range corrections {
		s.Learn(c)
	}
	return s
}

// Learn adds or replaces the correction for c.Description.
func (s *CorrectionStrategy) Learn(c models.Correction) {
	key := correctionKey(c.Description)
	if key == "" || strings.TrimSpace(c.CorrectedCategory) == "" {
		return
	}
	s.mu.Lock()
	s.mapping[key] = strings.TrimSpace(c.CorrectedCategory)
	s.mu.Unlock()
}

// Len returns the number of distinct corrected descriptions.
func (s *CorrectionStrategy) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mapping)
}

// Name implements Strategy.
func (s *CorrectionStrategy) Name() string { return StrategyCorrections }

// Categorize implements Strategy.
func (s *CorrectionStrategy) Categorize(_ context.Context, description string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.mapping[correctionKey(description)]
	return category, ok, nil
}

func correctionKey(description string) string {
	return strings.ToLower(strings.Join(strings.Fields(description), " "))
}
