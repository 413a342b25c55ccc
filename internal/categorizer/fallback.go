package categorizer

import (
	"fjacquet/bankstmt/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultIncomeThreshold is the credit amount above which an uncategorized
// row is treated as income.
var DefaultIncomeThreshold = decimal.NewFromInt(5000)

// ApplyIncomeFallback reclassifies an Uncategorized row whose credit-side
// amount exceeds threshold as Salary/Income. It reports whether it did.
func ApplyIncomeFallback(row *models.Row, threshold decimal.Decimal) bool {
	if row.Category != models.CategoryUncategorized {
		return false
	}
	if !row.CreditAmount().GreaterThan(threshold) {
		return false
	}
	row.Category = models.CategorySalaryIncome
	return true
}
