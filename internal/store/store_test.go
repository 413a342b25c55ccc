package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
	"fjacquet/bankstmt/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRuleStore_LoadRules(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []models.CategoryRule
	}{
		{
			name: "categories key",
			content: `categories:
  - name: Food & Dining
    keywords: [ZOMATO, SWIGGY]
  - name: Travel
    keywords: [UBER]
`,
			want: []models.CategoryRule{
				{Name: "Food & Dining", Keywords: []string{"ZOMATO", "SWIGGY"}},
				{Name: "Travel", Keywords: []string{"UBER"}},
			},
		},
		{
			name: "bare list",
			content: `- name: Fuel
  keywords: [PETROL]
`,
			want: []models.CategoryRule{{Name: "Fuel", Keywords: []string{"PETROL"}}},
		},
		{
			name: "mapping keeps file order",
			content: `Rent: [NOBROKER, RENT]
Fees/Charges: [SMS CHARGES]
`,
			want: []models.CategoryRule{
				{Name: "Rent", Keywords: []string{"NOBROKER", "RENT"}},
				{Name: "Fees/Charges", Keywords: []string{"SMS CHARGES"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "categories.yaml", tt.content)
			rules, err := NewRuleStore(path, logging.NewMockLogger()).LoadRules()
			require.NoError(t, err)
			assert.Equal(t, tt.want, rules)
		})
	}
}

func TestRuleStore_MissingFile(t *testing.T) {
	rules, err := NewRuleStore(filepath.Join(t.TempDir(), "nope.yaml"), nil).LoadRules()
	assert.NoError(t, err)
	assert.Nil(t, rules)
}

func TestRuleStore_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "categories.yaml", "just a string")
	_, err := NewRuleStore(path, nil).LoadRules()
	var storeErr *parsererror.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "parse", storeErr.Op)
}

func TestRuleStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "categories.yaml")
	s := NewRuleStore(path, nil)
	rules := []models.CategoryRule{{Name: "Groceries", Keywords: []string{"DMART"}}}

	require.NoError(t, s.SaveRules(rules))
	got, err := s.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, rules, got)
}

func TestCorrectionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.csv")
	logger := logging.NewMockLogger()
	s := NewCorrectionStore(path, logger)

	got, err := s.LoadCorrections()
	require.NoError(t, err)
	assert.Empty(t, got)

	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, s.Append(models.Correction{
		Description:       "UPI ZOMATO ORDER",
		OriginalCategory:  models.CategoryUncategorized,
		CorrectedCategory: models.CategoryFoodDining,
		Timestamp:         models.Timestamp{Time: at},
	}))
	require.NoError(t, s.Append(models.Correction{
		Description:       "NEFT RENT MAY",
		OriginalCategory:  models.CategoryTransfers,
		CorrectedCategory: models.CategoryRent,
		Timestamp:         models.Timestamp{Time: at},
	}))

	got, err = s.LoadCorrections()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "UPI ZOMATO ORDER", got[0].Description)
	assert.Equal(t, models.CategoryRent, got[1].CorrectedCategory)
	assert.True(t, got[0].Timestamp.Equal(at))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Description,Original_Category,Corrected_Category,Timestamp")
	assert.Contains(t, string(data), "2024-05-01 10:30:00")
	assert.Len(t, logger.GetEntriesByLevel("INFO"), 2)
}

func TestCorrectionStore_ReadsHandWrittenFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "corrections.csv",
		"Description,Original_Category,Corrected_Category,Timestamp\n"+
			"SWIGGY,Uncategorized,Food & Dining,2024-01-02T03:04:05Z\n"+
			"EMPTY TIME,Uncategorized,Travel,\n")

	got, err := NewCorrectionStore(path, nil).LoadCorrections()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2024, got[0].Timestamp.Year())
	assert.True(t, got[1].Timestamp.IsZero())
}

func TestCorrectionStore_RejectsIncomplete(t *testing.T) {
	s := NewCorrectionStore(filepath.Join(t.TempDir(), "c.csv"), nil)
	err := s.Append(models.Correction{Description: "  ", CorrectedCategory: "Travel"})
	var storeErr *parsererror.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "append", storeErr.Op)
}

func TestFindConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", "{}")
	found, err := FindConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
