package models

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a recovered, non-fatal condition.
type DiagnosticKind string

const (
	DiagParseFailure            DiagnosticKind = "parse_failure"
	DiagReconciliationAmbiguous DiagnosticKind = "reconciliation_ambiguous"
	DiagMalformedDate           DiagnosticKind = "malformed_date"
	DiagMalformedAmount         DiagnosticKind = "malformed_amount"
	DiagHeaderNotFound          DiagnosticKind = "header_not_found"
)

// Diagnostic records one degraded condition. Block and Row are -1 when they
// do not apply; Page is 1-based and 0 when unknown.
type Diagnostic struct {
	Kind    DiagnosticKind
	Page    int
	Block   int
	Row     int
	Field   string
	Text    string
	Message string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	if d.Page > 0 {
		fmt.Fprintf(&b, " page=%d", d.Page)
	}
	if d.Block >= 0 {
		fmt.Fprintf(&b, " block=%d", d.Block)
	}
	if d.Row >= 0 {
		fmt.Fprintf(&b, " row=%d", d.Row)
	}
	if d.Field != "" {
		fmt.Fprintf(&b, " field=%s", d.Field)
	}
	if d.Message != "" {
		b.WriteString(": ")
		b.WriteString(d.Message)
	}
	if d.Text != "" {
		fmt.Fprintf(&b, " [%s]", d.Text)
	}
	return b.String()
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// CountDiagnostics returns how many diagnostics have the given kind.
func CountDiagnostics(diags []Diagnostic, kind DiagnosticKind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
