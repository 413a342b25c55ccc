// Package reconcile infers debit or credit for rows whose statement prints a
// single amount column next to a running balance.
//
// The direction of row i comes from the balance delta balance[i]-balance[i-1]
// compared with the row's amount. The first row has no prior balance and
// defaults to debit, flagged for review, unless it has no amount at all.
package reconcile

import (
	"fjacquet/bankstmt/internal/currencyutils"
	"fjacquet/bankstmt/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the absolute tolerance of one minor currency unit.
var DefaultTolerance = decimal.New(1, -2)

// Reasons attached to rows that need review.
const (
	ReasonFirstRow      = "no prior balance; defaulted to debit"
	ReasonNoAmount      = "no non-zero amount in amount text"
	ReasonNoBalance     = "running balance missing"
	ReasonDeltaMismatch = "balance delta does not match amount"
)

// Entry is the input of one row, in statement order.
type Entry struct {
	AmountText string
	Balance    decimal.Decimal
	HasBalance bool
}

// Resolution is the outcome for one row.
type Resolution struct {
	Magnitude decimal.Decimal
	Direction models.Direction
	Delta     decimal.Decimal
	HasDelta  bool
	// Review marks rows whose direction is a default rather than an inference.
	Review bool
	// Ambiguous rows could not be reconciled against the balance delta.
	Ambiguous bool
	Reason    string
}

// Withdrawal is the debit-side magnitude. Unknown directions sit on the debit side.
func (r Resolution) Withdrawal() decimal.Decimal {
	if r.Direction == models.DirectionCredit {
		return decimal.Zero
	}
	return r.Magnitude
}

// Deposit is the credit-side magnitude.
func (r Resolution) Deposit() decimal.Decimal {
	if r.Direction == models.DirectionCredit {
		return r.Magnitude
	}
	return decimal.Zero
}

// Reconcile resolves every entry. It is a pure function of its inputs.
func Reconcile(entries []Entry, tolerance decimal.Decimal) []Resolution {
	out := make([]Resolution, len(entries))
	for i, e := range entries {
		magnitude, hasAmount := currencyutils.FirstNonZeroAmount(e.AmountText)
		r := Resolution{Magnitude: magnitude.Abs()}

		switch {
		case i == 0 && !hasAmount:
			r.unknown(ReasonNoAmount)
		case i == 0:
			r.Direction, r.Review, r.Reason = models.DirectionDebit, true, ReasonFirstRow
		case !e.HasBalance || !entries[i-1].HasBalance:
			r.unknown(ReasonNoBalance)
		default:
			r.Delta, r.HasDelta = e.Balance.Sub(entries[i-1].Balance), true
			switch {
			case !hasAmount:
				r.unknown(ReasonNoAmount)
			case currencyutils.WithinTolerance(r.Delta, r.Magnitude, tolerance):
				r.Direction = models.DirectionCredit
			case currencyutils.WithinTolerance(r.Delta, r.Magnitude.Neg(), tolerance):
				r.Direction = models.DirectionDebit
			default:
				r.unknown(ReasonDeltaMismatch)
			}
		}
		out[i] = r
	}
	return out
}

func (r *Resolution) unknown(reason string) {
	r.Direction = models.DirectionUnknown
	r.Review = true
	r.Ambiguous = true
	r.Reason = reason
}
