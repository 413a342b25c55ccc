package parsererror

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "parse error",
			err:      &ParseError{Parser: "HDFC", Field: "date", Value: "31/02/23", Err: errors.New("day out of range")},
			expected: "HDFC: failed to parse date='31/02/23': day out of range",
		},
		{
			name:     "input unreadable without cause",
			err:      &InputUnreadableError{Reason: "no pages"},
			expected: "input is unreadable: no pages",
		},
		{
			name:     "input unreadable with cause",
			err:      &InputUnreadableError{Source: "a.pdf", Reason: "extraction failed", Err: ErrNoText},
			expected: "a.pdf is unreadable: extraction failed: no extractable text",
		},
		{
			name:     "unknown layout",
			err:      &UnknownLayoutError{ID: "ICICI"},
			expected: `unknown bank layout "ICICI"`,
		},
		{
			name:     "invalid format with snippet",
			err:      &InvalidFormatError{FilePath: "x.txt", ExpectedFormat: "PDF", ActualContentSnippet: "hello", Msg: "missing magic"},
			expected: "invalid format in file 'x.txt': missing magic. Expected: PDF. Content snippet: 'hello'",
		},
		{
			name:     "extraction",
			err:      &ExtractionError{FilePath: "s.pdf", Tool: "pdftotext", Err: errors.New("exit status 1")},
			expected: "pdftotext could not extract text from 's.pdf': exit status 1",
		},
		{
			name:     "categorization",
			err:      &CategorizationError{Description: "UPI ZOMATO", Strategy: "AI", Err: errors.New("quota")},
			expected: `categorization failed for "UPI ZOMATO" using AI: quota`,
		},
		{
			name:     "store",
			err:      &StoreError{Path: "rules.yaml", Op: "read", Err: os.ErrPermission},
			expected: "read rules.yaml: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrapChains(t *testing.T) {
	cause := errors.New("root cause")

	assert.ErrorIs(t, &ParseError{Err: cause}, cause)
	assert.ErrorIs(t, &ExtractionError{Err: cause}, cause)
	assert.ErrorIs(t, &CategorizationError{Err: cause}, cause)
	assert.ErrorIs(t, &StoreError{Err: cause}, cause)

	unreadable := &InputUnreadableError{Reason: "extraction failed", Err: &ExtractionError{Tool: "pdf", Err: cause}}
	assert.ErrorIs(t, unreadable, cause)

	var extraction *ExtractionError
	assert.ErrorAs(t, unreadable, &extraction)
}

func TestIsInputUnreadable(t *testing.T) {
	wrapped := fmt.Errorf("parse statement: %w", &InputUnreadableError{Reason: "empty"})
	assert.True(t, IsInputUnreadable(wrapped))
	assert.False(t, IsInputUnreadable(&UnknownLayoutError{ID: "X"}))
	assert.False(t, IsInputUnreadable(nil))
}
