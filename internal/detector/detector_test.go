package detector

import (
	"strings"
	"testing"

	"fjacquet/bankstmt/internal/layout"
	"fjacquet/bankstmt/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	serialHeader = "S.No  Date  Transaction Id  Remarks  Amount(Rs.)  Balance(Rs.)"
	hdfcHeader   = "Date  Narration  Chq./Ref.No.  Value Dt  Withdrawal Amt.  Deposit Amt.  Closing Balance"
)

func newDetector() *Detector {
	return New(layout.Default(), 0, logging.NewMockLogger())
}

func TestDetect_ByBankName(t *testing.T) {
	for _, l := range layout.Default().All() {
		t.Run(string(l.ID), func(t *testing.T) {
			text := "Account statement\nIssued by " + strings.ToUpper(l.Name) + "\nBranch: Pune"
			m, ok := newDetector().Detect(text)
			require.True(t, ok)
			assert.Equal(t, l.ID, m.Layout.ID)
			assert.Equal(t, MethodName, m.Method)
		})
	}
}

func TestDetect_NameTakesPrecedenceOverHeader(t *testing.T) {
	text := "Union Bank of India\n" + hdfcHeader + "\n01/04/23 UPI 0001 01/04/23 10.00 90.00"
	m, ok := newDetector().Detect(text)
	require.True(t, ok)
	assert.Equal(t, layout.Union, m.Layout.ID)
}

func TestDetect_ByHeader(t *testing.T) {
	tests := []struct {
		name string
		text string
		want layout.ID
		ok   bool
	}{
		{
			name: "hdfc header confirmed",
			text: hdfcHeader + "\n\n01/04/23 UPI-ZOMATO 0001 01/04/23 250.00 9,750.00",
			want: layout.HDFC,
			ok:   true,
		},
		{
			name: "serial header confirmed picks first registered",
			text: "statement\n" + serialHeader + "\n1 01/04/2023 S100 UPI 500.00 (Dr) 9,500.00 (Cr)",
			want: layout.SBI,
			ok:   true,
		},
		{
			name: "header without start line",
			text: "we print " + hdfcHeader + " columns\nno transactions here",
			ok:   false,
		},
		{
			name: "start line beyond lookahead",
			text: hdfcHeader + strings.Repeat("\nfiller", 10) + "\n01/04/23 UPI 0001 01/04/23 250.00 9,750.00",
			ok:   false,
		},
		{
			name: "empty text",
			text: "  \n ",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := newDetector().Detect(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, m.Layout.ID)
				assert.Equal(t, MethodHeader, m.Method)
			}
		})
	}
}

func TestDetect_LookaheadIsConfigurable(t *testing.T) {
	text := hdfcHeader + strings.Repeat("\nfiller", 10) + "\n01/04/23 UPI 0001 01/04/23 250.00 9,750.00"
	_, ok := New(layout.Default(), 11, nil).Detect(text)
	assert.True(t, ok)
}

func TestDetect_HeaderOnlyLayout(t *testing.T) {
	d, _ := layout.Default().Get(layout.HDFC)
	copied := *d
	copied.ID = "HEADERONLY"
	copied.Name = "Header Only Bank"
	copied.Start = nil
	registry, err := layout.NewRegistry(&copied)
	require.NoError(t, err)

	m, ok := New(registry, 0, nil).Detect(hdfcHeader)
	require.True(t, ok)
	assert.Equal(t, layout.ID("HEADERONLY"), m.Layout.ID)
}

func TestDetectPages(t *testing.T) {
	logger := logging.NewMockLogger()
	det := New(layout.Default(), 0, logger)

	m, ok := det.DetectPages([]string{"cover page", "HDFC BANK LTD\n" + hdfcHeader})
	require.True(t, ok)
	assert.Equal(t, layout.HDFC, m.Layout.ID)
	assert.Equal(t, 2, m.Page)
	assert.True(t, logger.HasEntry("DEBUG", "No layout on page"))

	_, ok = det.DetectPages([]string{"cover", "blank", "State Bank of India"})
	assert.False(t, ok, "only the first two pages are searched")

	_, ok = det.DetectPages(nil)
	assert.False(t, ok)
}
