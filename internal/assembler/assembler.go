// Package assembler turns raw records into the canonical transaction table.
package assembler

import (
	"errors"
	"fmt"
	"time"

	"fjacquet/bankstmt/internal/currencyutils"
	"fjacquet/bankstmt/internal/dateutils"
	"fjacquet/bankstmt/internal/layout"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
	"fjacquet/bankstmt/internal/parsererror"
	"fjacquet/bankstmt/internal/reconcile"

	"github.com/shopspring/decimal"
)

// Assembler converts raw records of one layout into typed rows. Assemble is a
// pure function of its input; the Assembler keeps no state between calls.
type Assembler struct {
	layout    *layout.Descriptor
	tolerance decimal.Decimal
	logger    logging.Logger
}

// New creates an Assembler. A negative tolerance selects reconcile.DefaultTolerance.
func New(l *layout.Descriptor, tolerance decimal.Decimal, logger logging.Logger) *Assembler {
	if tolerance.IsNegative() {
		tolerance = reconcile.DefaultTolerance
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Assembler{layout: l, tolerance: tolerance, logger: logger}
}

// pending is a row under construction with the inputs reconciliation needs.
type pending struct {
	row        models.Row
	record     models.RawRecord
	amountText string
}

// Assemble converts records, in order, into a table. Malformed fields become
// diagnostics; no record is dropped.
func (a *Assembler) Assemble(records []models.RawRecord) (models.Table, []models.Diagnostic) {
	var (
		diags   []models.Diagnostic
		columns []string
		seen    = make(map[string]bool)
	)
	addColumn := func(name string) {
		if !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	rows := make([]pending, len(records))
	for i, rec := range records {
		p := pending{record: rec, row: models.Row{Direction: models.DirectionUnknown}}
		for _, f := range rename(rec.Fields, a.layout.Columns) {
			addColumn(f.column)
			diags = append(diags, a.convert(&p, i, f)...)
		}
		rows[i] = p
	}

	if a.layout.Reconcile {
		diags = append(diags, a.reconcile(rows)...)
		for _, c := range []string{models.ColWithdrawal, models.ColDeposit, models.ColAmount, models.ColDirection, models.ColReview} {
			addColumn(c)
		}
	} else {
		for i := range rows {
			sideAmounts(&rows[i].row)
		}
		addColumn(models.ColDirection)
	}

	table := models.Table{Columns: models.OrderColumns(columns), Rows: make([]models.Row, len(rows))}
	for i, p := range rows {
		table.Rows[i] = p.row
	}

	a.logger.Debug("Table assembled",
		logging.F(logging.FieldLayout, string(a.layout.ID)),
		logging.F(logging.FieldCount, len(table.Rows)))
	return table, diags
}

type renamed struct {
	models.RawField
	column string
}

// rename maps raw field names to canonical columns. A column already taken in
// the record gets a numeric suffix, "_1" for the first collision.
func rename(fields []models.RawField, columns map[string]string) []renamed {
	taken := make(map[string]bool, len(fields))
	out := make([]renamed, 0, len(fields))
	for _, f := range fields {
		base := columns[f.Name]
		if base == "" {
			base = f.Name
		}
		name := base
		for n := 1; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		taken[name] = true
		out = append(out, renamed{RawField: f, column: name})
	}
	return out
}

func (a *Assembler) convert(p *pending, index int, f renamed) []models.Diagnostic {
	r := &p.row
	diag := func(kind models.DiagnosticKind, msg string) []models.Diagnostic {
		a.logger.Warn("Field defaulted",
			logging.F(logging.FieldRow, index),
			logging.F(logging.FieldBlock, p.record.Block),
			logging.F(logging.FieldReason, msg))
		return []models.Diagnostic{{
			Kind:    kind,
			Page:    p.record.Page,
			Block:   p.record.Block,
			Row:     index,
			Field:   f.column,
			Text:    f.Value,
			Message: msg,
		}}
	}

	if !models.IsCanonical(f.column) {
		if r.Extras == nil {
			r.Extras = make(map[string]string)
		}
		r.Extras[f.column] = f.Value
		return nil
	}

	switch f.Kind {
	case models.KindDate:
		t, err := dateutils.ParseWithLayouts(f.Value, a.layout.DateLayouts)
		if err != nil {
			return diag(models.DiagMalformedDate, a.fieldError(f, err))
		}
		setDate(r, f.column, t)

	case models.KindAmount:
		amount, err := currencyutils.ParseAmount(f.Value)
		if err != nil && !errors.Is(err, currencyutils.ErrEmptyAmount) {
			r.Amount = decimal.Zero
			return diag(models.DiagMalformedAmount, a.fieldError(f, err))
		}
		r.Amount = amount.Abs()
		r.Direction = markerDirection(f.Marker)

	case models.KindBalance:
		balance, err := currencyutils.ParseAmount(f.Value)
		if err != nil {
			if errors.Is(err, currencyutils.ErrEmptyAmount) {
				return nil
			}
			return diag(models.DiagMalformedAmount, a.fieldError(f, err))
		}
		if f.Marker == currencyutils.MarkerDebit {
			balance = balance.Neg()
		}
		r.Balance, r.HasBalance = balance, true

	case models.KindAmountText:
		p.amountText = f.Value

	default:
		setText(r, f.column, f.Value)
	}
	return nil
}

func (a *Assembler) fieldError(f renamed, err error) string {
	pe := &parsererror.ParseError{Parser: string(a.layout.ID), Field: f.column, Value: f.Value, Err: err}
	return pe.Error()
}

func (a *Assembler) reconcile(rows []pending) []models.Diagnostic {
	entries := make([]reconcile.Entry, len(rows))
	for i, p := range rows {
		entries[i] = reconcile.Entry{AmountText: p.amountText, Balance: p.row.Balance, HasBalance: p.row.HasBalance}
	}

	var diags []models.Diagnostic
	for i, res := range reconcile.Reconcile(entries, a.tolerance) {
		r := &rows[i].row
		r.Amount = res.Magnitude
		r.Direction = res.Direction
		r.Withdrawal = res.Withdrawal()
		r.Deposit = res.Deposit()
		r.NeedsReview = res.Review
		if !res.Ambiguous {
			continue
		}
		a.logger.Warn("Direction not reconciled",
			logging.F(logging.FieldRow, i),
			logging.F(logging.FieldBlock, rows[i].record.Block),
			logging.F(logging.FieldReason, res.Reason))
		diags = append(diags, models.Diagnostic{
			Kind:    models.DiagReconciliationAmbiguous,
			Page:    rows[i].record.Page,
			Block:   rows[i].record.Block,
			Row:     i,
			Field:   models.ColAmount,
			Text:    rows[i].amountText,
			Message: res.Reason,
		})
	}
	return diags
}

// sideAmounts fills withdrawal and deposit from a marked amount. Unknown
// directions default to the debit side and are flagged.
func sideAmounts(r *models.Row) {
	switch r.Direction {
	case models.DirectionCredit:
		r.Deposit = r.Amount
	case models.DirectionDebit:
		r.Withdrawal = r.Amount
	default:
		r.Withdrawal = r.Amount
		r.NeedsReview = true
	}
}

func markerDirection(marker string) models.Direction {
	switch marker {
	case currencyutils.MarkerCredit:
		return models.DirectionCredit
	case currencyutils.MarkerDebit:
		return models.DirectionDebit
	default:
		return models.DirectionUnknown
	}
}

func setDate(r *models.Row, column string, t time.Time) {
	switch column {
	case models.ColDate:
		r.Date = t
	case models.ColValueDate:
		r.ValueDate = t
	}
}

// setText stores free text. Canonical columns without a text field keep the
// raw value as an extra.
func setText(r *models.Row, column, value string) {
	switch column {
	case models.ColSerialNo:
		r.SerialNo = value
	case models.ColReference:
		r.Reference = value
	case models.ColDescription:
		r.Description = value
	case models.ColCategory:
		r.Category = value
	default:
		if r.Extras == nil {
			r.Extras = make(map[string]string)
		}
		r.Extras[column] = value
	}
}
