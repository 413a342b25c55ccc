package layout

import (
	"regexp"

	"fjacquet/bankstmt/internal/dateutils"
	"fjacquet/bankstmt/internal/models"
)

// Built-in layout identifiers.
const (
	SBI   ID = "SBI"
	HDFC  ID = "HDFC"
	Union ID = "UNION"
)

const (
	markedAmount = `[\d,]+\.\d+\s*\((?i:dr|cr)\)`
	plainAmount  = `[\d,]+\.\d{2}`
)

// stopPatterns are footer and summary lines shared by the built-in layouts.
var stopPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^statement\s+summary`),
	regexp.MustCompile(`(?i)^opening\s+balance\b.*\bclosing\s+bal`),
	regexp.MustCompile(`(?i)computer\s+generated\s+statement`),
	regexp.MustCompile(`(?i)^page\s+\d+\s+of\s+\d+$`),
	regexp.MustCompile(`(?i)^\**\s*end\s+of\s+statement`),
}

// serialLayout builds the S.No/Date/Transaction Id/Remarks/Amount/Balance
// layout shared by SBI and Union Bank statements.
func serialLayout(id ID, name string) *Descriptor {
	return &Descriptor{
		ID:          id,
		Name:        name,
		Shape:       Flattened{},
		Header:      regexp.MustCompile(`(?i)S\.?\s*No.*Date.*Transaction\s+Id.*Remarks.*Amount.*Balance`),
		Start:       regexp.MustCompile(`^\d+\s+\d{2}/\d{2}/\d{4}\b`),
		BareBalance: regexp.MustCompile(`^` + markedAmount + `$`),
		Stops:       stopPatterns,
		Grammar: []*Alternative{
			{
				Name: "serial",
				Pattern: regexp.MustCompile(`^(?P<serial_no>\d+)\s+(?P<date>\d{2}/\d{2}/\d{4})\s+(?P<reference>S\d+)\s+` +
					`(?P<remarks>.*?)\s+(?P<amount>` + markedAmount + `)\s+(?P<balance>` + markedAmount + `)` +
					`(?:\s+(?P<remarks_tail>.*))?$`),
				Slots: []Slot{
					{Name: "serial_no", Kind: models.KindText},
					{Name: "date", Kind: models.KindDate},
					{Name: "reference", Kind: models.KindText},
					{Name: "remarks", Kind: models.KindText},
					{Name: "amount", Kind: models.KindAmount, Marked: true},
					{Name: "balance", Kind: models.KindBalance, Marked: true},
					{Name: "remarks_tail", Kind: models.KindText, AppendTo: "remarks"},
				},
			},
		},
		Columns: map[string]string{
			"serial_no": models.ColSerialNo,
			"date":      models.ColDate,
			"reference": models.ColReference,
			"remarks":   models.ColDescription,
			"amount":    models.ColAmount,
			"balance":   models.ColBalance,
		},
		DateLayouts: []string{dateutils.DateLayoutDayMonthYear},
	}
}

func hdfcLayout() *Descriptor {
	head := `^(?P<date>\d{2}/\d{2}/\d{2})\s+(?P<narration>.*?)\s+(?P<reference>\S+)\s+(?P<value_date>\d{2}/\d{2}/\d{2})\s+`
	slots := func(tail bool) []Slot {
		s := []Slot{
			{Name: "date", Kind: models.KindDate},
			{Name: "narration", Kind: models.KindText},
			{Name: "reference", Kind: models.KindText},
			{Name: "value_date", Kind: models.KindDate},
			{Name: "amounts", Kind: models.KindAmountText},
			{Name: "balance", Kind: models.KindBalance},
		}
		if tail {
			s = append(s, Slot{Name: "narration_tail", Kind: models.KindText, AppendTo: "narration"})
		}
		return s
	}

	return &Descriptor{
		ID:           HDFC,
		Name:         "HDFC Bank",
		Shape:        Anchored{Narration: "narration"},
		Header:       regexp.MustCompile(`(?i)Date.*?Narration.*?Chq.*?Ref.*?No.*?Value.*?Dt.*?Withdrawal.*?Amt.*?Deposit.*?Amt.*?Closing.*?Balance`),
		Start:        regexp.MustCompile(`^\d{2}/\d{2}/\d{2}\b`),
		Continuation: regexp.MustCompile(`[A-Za-z]`),
		BareBalance:  regexp.MustCompile(`^` + plainAmount + `$`),
		Stops:        stopPatterns,
		Grammar: []*Alternative{
			{
				Name: "same-line balance",
				Pattern: regexp.MustCompile(head + `(?P<amounts>\S.*?)\s+(?P<balance>` + plainAmount + `)` +
					`(?:\s+(?P<narration_tail>[^\d\s].*?))?$`),
				Slots: slots(true),
			},
			{
				Name:            "balance on next line",
				WithBalanceLine: true,
				Pattern: regexp.MustCompile(head + `(?P<amounts>` + plainAmount + `(?:\s+` + plainAmount + `)?)\s+` +
					`(?P<balance>` + plainAmount + `)$`),
				Slots: slots(false),
			},
		},
		Columns: map[string]string{
			"date":       models.ColDate,
			"narration":  models.ColDescription,
			"reference":  models.ColReference,
			"value_date": models.ColValueDate,
			"amounts":    models.ColAmount,
			"balance":    models.ColBalance,
		},
		DateLayouts: []string{dateutils.DateLayoutDayMonthYY},
		Reconcile:   true,
	}
}

// builtins returns fresh descriptors in detection order.
func builtins() []*Descriptor {
	return []*Descriptor{
		serialLayout(SBI, "State Bank of India"),
		hdfcLayout(),
		serialLayout(Union, "Union Bank of India"),
	}
}
