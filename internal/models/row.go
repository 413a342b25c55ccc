package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical column names shared by all layouts.
const (
	ColDate        = "date"
	ColValueDate   = "value_date"
	ColSerialNo    = "serial_no"
	ColReference   = "reference"
	ColDescription = "description"
	ColWithdrawal  = "withdrawal"
	ColDeposit     = "deposit"
	ColAmount      = "amount"
	ColDirection   = "direction"
	ColBalance     = "balance"
	ColReview      = "review"
	ColCategory    = "category"
)

// ColumnGroup orders columns in an output table.
type ColumnGroup int

const (
	GroupDate ColumnGroup = iota
	GroupIdentifier
	GroupDescription
	GroupAmount
	GroupCategory
	GroupExtra
)

var canonicalColumns = map[string]struct {
	group ColumnGroup
	rank  int
}{
	ColDate:        {GroupDate, 0},
	ColValueDate:   {GroupDate, 1},
	ColSerialNo:    {GroupIdentifier, 0},
	ColReference:   {GroupIdentifier, 1},
	ColDescription: {GroupDescription, 0},
	ColWithdrawal:  {GroupAmount, 0},
	ColDeposit:     {GroupAmount, 1},
	ColAmount:      {GroupAmount, 2},
	ColDirection:   {GroupAmount, 3},
	ColBalance:     {GroupAmount, 4},
	ColReview:      {GroupAmount, 5},
	ColCategory:    {GroupCategory, 0},
}

// IsCanonical reports whether name is one of the canonical columns.
func IsCanonical(name string) bool {
	_, ok := canonicalColumns[name]
	return ok
}

// ColumnOrder returns the group and in-group rank of a column. Unknown names
// are extras with rank -1; callers keep extras in first-seen order.
func ColumnOrder(name string) (ColumnGroup, int) {
	c, ok := canonicalColumns[name]
	if !ok {
		return GroupExtra, -1
	}
	return c.group, c.rank
}

// OrderColumns sorts columns by group and in-group rank. Extras keep their
// relative order. The input is not modified.
func OrderColumns(columns []string) []string {
	out := make([]string, len(columns))
	copy(out, columns)
	sort.SliceStable(out, func(i, j int) bool {
		gi, ri := ColumnOrder(out[i])
		gj, rj := ColumnOrder(out[j])
		if gi != gj {
			return gi < gj
		}
		return ri < rj
	})
	return out
}

// Row is a resolved transaction. Amount, Withdrawal and Deposit are magnitudes;
// the sign lives in Direction. A zero Date means the date was missing or malformed.
type Row struct {
	Date        time.Time
	ValueDate   time.Time
	SerialNo    string
	Reference   string
	Description string
	Withdrawal  decimal.Decimal
	Deposit     decimal.Decimal
	Amount      decimal.Decimal
	Direction   Direction
	Balance     decimal.Decimal
	HasBalance  bool
	NeedsReview bool
	Category    string
	Extras      map[string]string
}

// CreditAmount is the credit-side amount used by the income fallback.
func (r Row) CreditAmount() decimal.Decimal {
	if r.Direction == DirectionCredit {
		return r.Amount
	}
	return r.Deposit
}

// SignedAmount is negative for debits and for unknown directions, which
// default to the debit side.
func (r Row) SignedAmount() decimal.Decimal {
	if r.Direction == DirectionCredit {
		return r.Amount
	}
	return r.Amount.Neg()
}

// Value returns the typed value of a column: time.Time (nil when missing),
// decimal.Decimal, bool or string.
func (r Row) Value(column string) interface{} {
	switch column {
	case ColDate:
		return dateValue(r.Date)
	case ColValueDate:
		return dateValue(r.ValueDate)
	case ColSerialNo:
		return r.SerialNo
	case ColReference:
		return r.Reference
	case ColDescription:
		return r.Description
	case ColWithdrawal:
		return r.Withdrawal
	case ColDeposit:
		return r.Deposit
	case ColAmount:
		return r.Amount
	case ColDirection:
		return string(r.Direction)
	case ColBalance:
		if !r.HasBalance {
			return nil
		}
		return r.Balance
	case ColReview:
		return r.NeedsReview
	case ColCategory:
		return r.Category
	default:
		return r.Extras[column]
	}
}

func dateValue(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// Table is the assembled result: ordered columns and rows in statement order.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table carries column.
func (t Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}
