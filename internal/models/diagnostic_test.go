package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "abc", max: 10, want: "abc"},
		{name: "exact", in: "abcdef", max: 6, want: "abcdef"},
		{name: "cut", in: "abcdefghij", max: 6, want: "abc..."},
		{name: "multibyte", in: "₹₹₹₹₹₹₹₹", max: 5, want: "₹₹..."},
		{name: "tiny max", in: "abcdef", max: 2, want: "ab"},
		{name: "no limit", in: "abcdef", max: 0, want: "abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Kind: DiagParseFailure, Page: 2, Block: 4, Row: -1, Message: "no grammar matched", Text: "garbled"}
	assert.Equal(t, "parse_failure page=2 block=4: no grammar matched [garbled]", d.String())

	d = Diagnostic{Kind: DiagMalformedDate, Block: -1, Row: 3, Field: "date"}
	assert.Equal(t, "malformed_date row=3 field=date", d.String())
}

func TestCountDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{Kind: DiagParseFailure}, {Kind: DiagMalformedAmount}, {Kind: DiagParseFailure},
	}
	assert.Equal(t, 2, CountDiagnostics(diags, DiagParseFailure))
	assert.Equal(t, 0, CountDiagnostics(diags, DiagHeaderNotFound))
}

func TestTimestamp_CSV(t *testing.T) {
	var ts Timestamp
	require.NoError(t, ts.UnmarshalCSV("2024-05-01 10:30:00"))
	assert.Equal(t, time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC), ts.Time)

	out, err := ts.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 10:30:00", out)

	require.NoError(t, ts.UnmarshalCSV("2024-05-01T10:30:00Z"))
	assert.Equal(t, 10, ts.Hour())

	require.NoError(t, ts.UnmarshalCSV(""))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.UnmarshalCSV("yesterday"))
}
