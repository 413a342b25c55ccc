package categorizer

import (
	"context"
	"testing"

	"fjacquet/bankstmt/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCorrectionStrategy(t *testing.T) {
	s := NewCorrectionStrategy([]models.Correction{
		{Description: "UPI ZOMATO ORDER", CorrectedCategory: models.CategoryFoodDining},
		{Description: "NEFT TO LANDLORD", CorrectedCategory: models.CategoryTransfers},
		{Description: "neft  to landlord", CorrectedCategory: models.CategoryRent},
		{Description: "", CorrectedCategory: models.CategoryRent},
		{Description: "NO TARGET", CorrectedCategory: " "},
	})
	assert.Equal(t, 2, s.Len())

	tests := []struct {
		description string
		want        string
		found       bool
	}{
		{"upi zomato order", models.CategoryFoodDining, true},
		{"NEFT TO LANDLORD", models.CategoryRent, true},
		{"UPI ZOMATO", "", false},
		{"NO TARGET", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, found, err := s.Categorize(context.Background(), tt.description)
			assert.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}

	s.Learn(models.Correction{Description: "UPI ZOMATO", CorrectedCategory: models.CategoryFoodDining})
	got, found, _ := s.Categorize(context.Background(), "UPI ZOMATO")
	assert.True(t, found)
	assert.Equal(t, models.CategoryFoodDining, got)
	assert.Equal(t, StrategyCorrections, s.Name())
}
