package categorizer

import (
	"context"
	"errors"
	"testing"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStrategy answers from a fixed table.
type stubStrategy struct {
	name    string
	answers map[string]string
	err     error
	calls   int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Categorize(_ context.Context, description string) (string, bool, error) {
	s.calls++
	if s.err != nil {
		return "", false, s.err
	}
	c, ok := s.answers[description]
	return c, ok, nil
}

func TestCategorizer_FirstMatchWins(t *testing.T) {
	first := &stubStrategy{name: "first", answers: map[string]string{"A": "Travel"}}
	second := &stubStrategy{name: "second", answers: map[string]string{"A": "Rent", "B": "Fuel"}}
	c := New(nil, first, nil, second)

	assert.Equal(t, []string{"first", "second"}, c.Strategies())
	assert.Equal(t, Result{Category: "Travel", Strategy: "first"}, c.Categorize(context.Background(), "A"))
	assert.Equal(t, 0, second.calls)
	assert.Equal(t, Result{Category: "Fuel", Strategy: "second"}, c.Categorize(context.Background(), "B"))
	assert.Equal(t, models.CategoryUncategorized, c.Classify(context.Background(), "C"))
}

func TestCategorizer_EmptyDescription(t *testing.T) {
	s := &stubStrategy{name: "s"}
	c := New(nil, s)
	r := c.Categorize(context.Background(), "   ")
	assert.Equal(t, models.CategoryUncategorized, r.Category)
	assert.Equal(t, StrategyDefault, r.Strategy)
	assert.Zero(t, s.calls)
}

func TestCategorizer_StrategyErrorsDoNotAbort(t *testing.T) {
	logger := logging.NewMockLogger()
	failing := &stubStrategy{name: "broken", err: errors.New("boom")}
	ok := &stubStrategy{name: "ok", answers: map[string]string{"X": "Shopping"}}
	c := New(logger, failing, ok)

	assert.Equal(t, "Shopping", c.Classify(context.Background(), "X"))
	require.Len(t, logger.GetEntriesByLevel("WARN"), 1)
	strategy, _ := logger.GetEntriesByLevel("WARN")[0].FieldValue(logging.FieldStrategy)
	assert.Equal(t, "broken", strategy)
}

func TestCategorizer_Explain(t *testing.T) {
	c := New(nil,
		&stubStrategy{name: "broken", err: errors.New("boom")},
		&stubStrategy{name: "miss"},
		&stubStrategy{name: "hit", answers: map[string]string{"X": "Rent"}},
	)
	results := c.Explain(context.Background(), "X")
	assert.Equal(t, "broken:failed, miss:no_match, hit:success", results.Summary())
	best, ok := results.Best()
	require.True(t, ok)
	assert.Equal(t, "Rent", best.Category)
	require.Len(t, results.Errors(), 1)
	assert.Contains(t, results.Errors()[0].Error(), "broken strategy: boom")
}

func TestApplyIncomeFallback(t *testing.T) {
	threshold := DefaultIncomeThreshold
	tests := []struct {
		name     string
		row      models.Row
		want     string
		switched bool
	}{
		{
			name:     "large credit",
			row:      models.Row{Category: models.CategoryUncategorized, Amount: decimal.NewFromInt(7000), Direction: models.DirectionCredit},
			want:     models.CategorySalaryIncome,
			switched: true,
		},
		{
			name: "small credit",
			row:  models.Row{Category: models.CategoryUncategorized, Amount: decimal.NewFromInt(3000), Direction: models.DirectionCredit},
			want: models.CategoryUncategorized,
		},
		{
			name: "exactly the threshold",
			row:  models.Row{Category: models.CategoryUncategorized, Amount: decimal.NewFromInt(5000), Direction: models.DirectionCredit},
			want: models.CategoryUncategorized,
		},
		{
			name: "large debit",
			row:  models.Row{Category: models.CategoryUncategorized, Amount: decimal.NewFromInt(9000), Direction: models.DirectionDebit, Withdrawal: decimal.NewFromInt(9000)},
			want: models.CategoryUncategorized,
		},
		{
			name: "already categorized",
			row:  models.Row{Category: models.CategoryRent, Amount: decimal.NewFromInt(9000), Direction: models.DirectionCredit},
			want: models.CategoryRent,
		},
		{
			name:     "deposit column",
			row:      models.Row{Category: models.CategoryUncategorized, Deposit: decimal.NewFromInt(6000), Direction: models.DirectionUnknown},
			want:     models.CategorySalaryIncome,
			switched: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tt.row
			assert.Equal(t, tt.switched, ApplyIncomeFallback(&row, threshold))
			assert.Equal(t, tt.want, row.Category)
		})
	}
}
