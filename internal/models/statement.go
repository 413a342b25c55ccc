package models

import "strings"

// Direction is the resolved flow of a transaction.
type Direction string

const (
	DirectionDebit   Direction = "debit"
	DirectionCredit  Direction = "credit"
	DirectionUnknown Direction = "unknown"
)

// LineRole tells the extractor how a segmented line should be used.
type LineRole int

const (
	// RoleStart is the first line of a record.
	RoleStart LineRole = iota
	// RoleBalance is a bare running-balance line directly after the start line.
	RoleBalance
	// RoleContinuation is wrapped narration text.
	RoleContinuation
)

func (r LineRole) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleBalance:
		return "balance"
	case RoleContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// Line is one trimmed source line of a block.
type Line struct {
	Text   string
	Role   LineRole
	Number int // 1-based line number within its page
}

// Block is the logical line block of one candidate transaction.
type Block struct {
	Index int // position in statement order
	Page  int // 1-based page the block started on
	Lines []Line
}

// Text joins all lines with single spaces.
func (b Block) Text() string {
	parts := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		parts = append(parts, l.Text)
	}
	return strings.Join(parts, " ")
}

// FieldKind selects the conversion the assembler applies to a raw field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindAmount
	KindBalance
	// KindAmountText is free text holding the amount of a reconciled layout.
	KindAmountText
)

// RawField is one extracted, trimmed capture.
type RawField struct {
	Name   string
	Kind   FieldKind
	Value  string
	Marker string // "Dr", "Cr" or "" for marked amounts and balances
}

// RawRecord is the raw field mapping extracted from one block. Fields keep
// the order of the grammar's slots.
type RawRecord struct {
	Block   int
	Page    int
	Pattern string
	Fields  []RawField
}

// Get returns the field called name.
func (r RawRecord) Get(name string) (RawField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return RawField{}, false
}
