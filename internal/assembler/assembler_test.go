package assembler

import (
	"testing"
	"time"

	"fjacquet/bankstmt/internal/layout"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
	"fjacquet/bankstmt/internal/reconcile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, id layout.ID) *layout.Descriptor {
	t.Helper()
	d, ok := layout.Default().Get(id)
	require.True(t, ok)
	return d
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func hdfcRecord(block int, date, narration, amounts, balance string) models.RawRecord {
	return models.RawRecord{Block: block, Page: 1, Pattern: "same-line balance", Fields: []models.RawField{
		{Name: "date", Kind: models.KindDate, Value: date},
		{Name: "narration", Kind: models.KindText, Value: narration},
		{Name: "reference", Kind: models.KindText, Value: "REF" + date},
		{Name: "value_date", Kind: models.KindDate, Value: date},
		{Name: "amounts", Kind: models.KindAmountText, Value: amounts},
		{Name: "balance", Kind: models.KindBalance, Value: balance},
	}}
}

func serialRecord(block int, serial, amount, amountMarker, balance, balanceMarker string) models.RawRecord {
	return models.RawRecord{Block: block, Page: 1, Pattern: "serial", Fields: []models.RawField{
		{Name: "serial_no", Kind: models.KindText, Value: serial},
		{Name: "date", Kind: models.KindDate, Value: "01/04/2023"},
		{Name: "reference", Kind: models.KindText, Value: "S" + serial},
		{Name: "remarks", Kind: models.KindText, Value: "UPI/" + serial},
		{Name: "amount", Kind: models.KindAmount, Value: amount, Marker: amountMarker},
		{Name: "balance", Kind: models.KindBalance, Value: balance, Marker: balanceMarker},
	}}
}

func TestAssemble_BalanceDeltaReconciliation(t *testing.T) {
	records := []models.RawRecord{
		hdfcRecord(0, "01/04/23", "OPENING", "100.00", "1,000.00"),
		hdfcRecord(1, "02/04/23", "NEFT CR", "500.00", "1,500.00"),
		hdfcRecord(2, "03/04/23", "ATM WDL", "200.00", "1,300.00"),
	}
	table, diags := New(get(t, layout.HDFC), reconcile.DefaultTolerance, nil).Assemble(records)
	require.Len(t, table.Rows, 3)
	assert.Empty(t, diags)

	credit, debit := table.Rows[1], table.Rows[2]
	assert.Equal(t, models.DirectionCredit, credit.Direction)
	assert.True(t, credit.Amount.Equal(d("500")))
	assert.True(t, credit.Deposit.Equal(d("500")))
	assert.True(t, credit.Withdrawal.IsZero())

	assert.Equal(t, models.DirectionDebit, debit.Direction)
	assert.True(t, debit.Amount.Equal(d("200")))
	assert.True(t, debit.Withdrawal.Equal(d("200")))
	assert.True(t, debit.Deposit.IsZero())

	first := table.Rows[0]
	assert.Equal(t, models.DirectionDebit, first.Direction)
	assert.True(t, first.NeedsReview)
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "OPENING", first.Description)
	assert.Equal(t, "REF01/04/23", first.Reference)
}

func TestAssemble_AmbiguousRowIsKept(t *testing.T) {
	records := []models.RawRecord{
		hdfcRecord(0, "01/04/23", "A", "1.00", "100.00"),
		hdfcRecord(1, "02/04/23", "FEE", "12.50", "110.00"),
	}
	logger := logging.NewMockLogger()
	table, diags := New(get(t, layout.HDFC), reconcile.DefaultTolerance, logger).Assemble(records)
	require.Len(t, table.Rows, 2)

	row := table.Rows[1]
	assert.Equal(t, models.DirectionUnknown, row.Direction)
	assert.True(t, row.NeedsReview)
	assert.True(t, row.Amount.Equal(d("12.50")))
	assert.True(t, row.Withdrawal.Equal(d("12.50")))

	require.Len(t, diags, 1)
	assert.Equal(t, models.DiagReconciliationAmbiguous, diags[0].Kind)
	assert.Equal(t, 1, diags[0].Row)
	assert.Equal(t, "12.50", diags[0].Text)
	assert.True(t, logger.HasEntry("WARN", "Direction not reconciled"))
}

func TestAssemble_Columns(t *testing.T) {
	tests := []struct {
		name    string
		layout  layout.ID
		records []models.RawRecord
		want    []string
	}{
		{
			name:    "reconciled layout",
			layout:  layout.HDFC,
			records: []models.RawRecord{hdfcRecord(0, "01/04/23", "A", "1.00", "100.00")},
			want: []string{
				models.ColDate, models.ColValueDate, models.ColReference, models.ColDescription,
				models.ColWithdrawal, models.ColDeposit, models.ColAmount, models.ColDirection,
				models.ColBalance, models.ColReview,
			},
		},
		{
			name:    "marked layout",
			layout:  layout.SBI,
			records: []models.RawRecord{serialRecord(0, "1", "500.00", "Dr", "9,500.00", "Cr")},
			want: []string{
				models.ColDate, models.ColSerialNo, models.ColReference, models.ColDescription,
				models.ColAmount, models.ColDirection, models.ColBalance,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, _ := New(get(t, tt.layout), reconcile.DefaultTolerance, nil).Assemble(tt.records)
			assert.Equal(t, tt.want, table.Columns)
		})
	}
}

func TestAssemble_MarkedAmounts(t *testing.T) {
	records := []models.RawRecord{
		serialRecord(0, "1", "500.00", "Dr", "9,500.00", "Cr"),
		serialRecord(1, "2", "1,000.00", "Cr", "250.00", "Dr"),
		serialRecord(2, "3", "5.00", "", "245.00", "Dr"),
	}
	table, diags := New(get(t, layout.SBI), reconcile.DefaultTolerance, nil).Assemble(records)
	assert.Empty(t, diags)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, models.DirectionDebit, table.Rows[0].Direction)
	assert.True(t, table.Rows[0].Withdrawal.Equal(d("500")))
	assert.True(t, table.Rows[0].Balance.Equal(d("9500")))

	assert.Equal(t, models.DirectionCredit, table.Rows[1].Direction)
	assert.True(t, table.Rows[1].Deposit.Equal(d("1000")))
	assert.True(t, table.Rows[1].Balance.Equal(d("-250")), "Dr balances are overdrawn")
	assert.Equal(t, "2", table.Rows[1].SerialNo)
	assert.Equal(t, "UPI/2", table.Rows[1].Description)

	assert.Equal(t, models.DirectionUnknown, table.Rows[2].Direction)
	assert.True(t, table.Rows[2].NeedsReview)
	assert.True(t, table.Rows[2].Withdrawal.Equal(d("5")))
}

func TestAssemble_MalformedFields(t *testing.T) {
	rec := serialRecord(4, "1", "5OO.00", "Dr", "abc", "Cr")
	rec.Fields[1].Value = "31/02/2023"
	rec.Page = 3

	table, diags := New(get(t, layout.SBI), reconcile.DefaultTolerance, nil).Assemble([]models.RawRecord{rec})
	require.Len(t, table.Rows, 1, "rows with malformed fields are kept")

	row := table.Rows[0]
	assert.True(t, row.Date.IsZero())
	assert.True(t, row.Amount.IsZero())
	assert.False(t, row.HasBalance)
	assert.Nil(t, row.Value(models.ColDate))

	assert.Equal(t, 1, models.CountDiagnostics(diags, models.DiagMalformedDate))
	assert.Equal(t, 2, models.CountDiagnostics(diags, models.DiagMalformedAmount))
	for _, diag := range diags {
		assert.Equal(t, 3, diag.Page)
		assert.Equal(t, 4, diag.Block)
		assert.Equal(t, 0, diag.Row)
	}
	assert.Equal(t, models.ColDate, diags[0].Field)
	assert.Contains(t, diags[0].Message, "SBI: failed to parse "+models.ColDate+"='31/02/2023'")
}

func TestAssemble_EmptyAmountIsZero(t *testing.T) {
	rec := serialRecord(0, "1", "", "Cr", "10.00", "Cr")
	table, diags := New(get(t, layout.SBI), reconcile.DefaultTolerance, nil).Assemble([]models.RawRecord{rec})
	assert.Empty(t, diags)
	assert.True(t, table.Rows[0].Amount.IsZero())
}

func TestAssemble_Idempotent(t *testing.T) {
	records := []models.RawRecord{
		hdfcRecord(0, "01/04/23", "A", "1.00", "100.00"),
		hdfcRecord(1, "02/04/23", "B", "12.50", "110.00"),
		hdfcRecord(2, "bad", "C", "10.00", "100.00"),
	}
	a := New(get(t, layout.HDFC), reconcile.DefaultTolerance, nil)
	first, firstDiags := a.Assemble(records)
	second, secondDiags := a.Assemble(records)
	assert.Equal(t, first, second)
	assert.Equal(t, firstDiags, secondDiags)
}

func TestAssemble_NoRecords(t *testing.T) {
	table, diags := New(get(t, layout.HDFC), reconcile.DefaultTolerance, nil).Assemble(nil)
	assert.Empty(t, table.Rows)
	assert.Empty(t, diags)
}

func TestRename_Collisions(t *testing.T) {
	columns := map[string]string{
		"remarks":   models.ColDescription,
		"narration": models.ColDescription,
		"memo":      models.ColDescription,
		"date":      models.ColDate,
	}
	fields := []models.RawField{
		{Name: "date"},
		{Name: "remarks"},
		{Name: "narration"},
		{Name: "branch"},
		{Name: "memo"},
	}
	got := rename(fields, columns)
	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.column
	}
	assert.Equal(t, []string{"date", "description", "description_1", "branch", "description_2"}, names)
}

func TestAssemble_CollidingColumnsBecomeExtras(t *testing.T) {
	hdfc := *get(t, layout.HDFC)
	hdfc.Columns = map[string]string{}
	for k, v := range get(t, layout.HDFC).Columns {
		hdfc.Columns[k] = v
	}
	hdfc.Columns["reference"] = models.ColDescription

	table, _ := New(&hdfc, reconcile.DefaultTolerance, nil).Assemble([]models.RawRecord{
		hdfcRecord(0, "01/04/23", "UPI", "1.00", "100.00"),
	})
	assert.Equal(t, "UPI", table.Rows[0].Description)
	assert.Equal(t, "REF01/04/23", table.Rows[0].Extras["description_1"])
	assert.Equal(t, "description_1", table.Columns[len(table.Columns)-1])
}
