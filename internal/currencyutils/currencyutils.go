// Package currencyutils parses and compares the monetary text found in statement dumps.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned by ParseAmount for blank input.
var ErrEmptyAmount = errors.New("empty amount")

// Direction markers recognized by SplitDirectionMarker.
const (
	MarkerDebit  = "Dr"
	MarkerCredit = "Cr"
)

var (
	currencyNoise = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr|[€$£]|\s)`)
	amountToken   = regexp.MustCompile(`\d[\d,]*\.\d+`)
	markerSuffix  = regexp.MustCompile(`(?i)^(.*?)\s*\(?\s*\b(dr|cr)\b\.?\s*\)?$`)
)

// ParseAmount parses statement amounts such as "1,23,456.78", "Rs. 500" or
// "-12.50". Grouping separators (commas, apostrophes) and currency markers are
// dropped before parsing.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips currency markers, whitespace and grouping separators.
func StandardizeAmount(amountStr string) string {
	amountStr = currencyNoise.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, ",", "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")
	return amountStr
}

// FirstNonZeroAmount returns the first decimal-looking token in text whose
// value is not zero. The second result is false when there is none.
func FirstNonZeroAmount(text string) (decimal.Decimal, bool) {
	for _, token := range amountToken.FindAllString(text, -1) {
		amount, err := ParseAmount(token)
		if err != nil || amount.IsZero() {
			continue
		}
		return amount, true
	}
	return decimal.Zero, false
}

// SplitDirectionMarker separates a trailing debit/credit marker from an amount,
// e.g. "1,500.00 (Dr)" yields ("1,500.00", "Dr"). The marker is "" when absent.
func SplitDirectionMarker(text string) (string, string) {
	text = strings.TrimSpace(text)
	m := markerSuffix.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	marker := MarkerDebit
	if strings.EqualFold(m[2], "cr") {
		marker = MarkerCredit
	}
	return strings.TrimSpace(m[1]), marker
}

// WithinTolerance reports whether |a-b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
