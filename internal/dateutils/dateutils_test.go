package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithLayouts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		layouts []string
		want    time.Time
		wantErr bool
	}{
		{
			name:    "four digit year",
			input:   "05/04/2023",
			layouts: []string{DateLayoutDayMonthYear},
			want:    time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "two digit year",
			input:   "31/03/24",
			layouts: []string{DateLayoutDayMonthYY},
			want:    time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "second layout wins",
			input:   " 01-Apr-23 ",
			layouts: []string{DateLayoutDayMonthYY, DateLayoutWithMonthYY},
			want:    time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "impossible day",
			input:   "31/02/2023",
			layouts: []string{DateLayoutDayMonthYear},
			wantErr: true,
		},
		{
			name:    "wrong shape",
			input:   "2023-04-05",
			layouts: []string{DateLayoutDayMonthYear},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWithLayouts(tt.input, tt.layouts)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseWithLayouts_Empty(t *testing.T) {
	_, err := ParseWithLayouts("  ", []string{DateLayoutISO})
	assert.ErrorIs(t, err, ErrEmptyDate)
}

func TestParseDate(t *testing.T) {
	got, layout, err := ParseDate("15/08/2023")
	require.NoError(t, err)
	assert.Equal(t, DateLayoutDayMonthYear, layout)
	assert.Equal(t, 2023, got.Year())

	_, _, err = ParseDate("someday")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-04-05", FormatDate(d, ""))
	assert.Equal(t, "05/04/2023", FormatDate(d, DateLayoutDayMonthYear))
	assert.Equal(t, "", FormatDate(time.Time{}, ""))
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "01 Apr 2023", CleanDateString("  01   Apr\t2023 "))
}
