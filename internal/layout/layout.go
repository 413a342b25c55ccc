// Package layout is the registry of supported bank statement layouts. A layout
// pairs recognition rules (header, start, continuation, bare balance, stop
// lines) with grammar alternatives whose named captures are bound to a typed
// slot schema when the layout is built.
package layout

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/bankstmt/internal/models"
)

// ID identifies a registered layout.
type ID string

// Slot binds one named capture group to its meaning.
type Slot struct {
	Name string
	Kind models.FieldKind
	// Marked slots carry a trailing Dr/Cr marker that is split off during extraction.
	Marked bool
	// AppendTo, when set, names the slot whose value this capture is appended to.
	AppendTo string
}

// Alternative is one grammar shape of a layout.
type Alternative struct {
	Name string
	// WithBalanceLine selects the variant whose running balance sits on the
	// line following the start line.
	WithBalanceLine bool
	Pattern         *regexp.Regexp
	Slots           []Slot

	groups map[string]int
}

// Match applies the alternative to input and returns the trimmed capture per
// slot name. Unmatched optional groups yield "".
func (a *Alternative) Match(input string) (map[string]string, bool) {
	m := a.Pattern.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}
	out := make(map[string]string, len(a.Slots))
	for _, s := range a.Slots {
		out[s.Name] = strings.TrimSpace(m[a.groups[s.Name]])
	}
	return out, true
}

// Descriptor is the immutable description of one bank layout.
type Descriptor struct {
	ID    ID
	Name  string
	Shape Shape

	Header       *regexp.Regexp
	Start        *regexp.Regexp
	Continuation *regexp.Regexp // nil: any non-start line continues the open block
	BareBalance  *regexp.Regexp // nil: the layout has no following-line balance variant
	Stops        []*regexp.Regexp

	Grammar     []*Alternative
	Columns     map[string]string // slot name -> canonical column
	DateLayouts []string
	Reconcile   bool
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CollapseSpaces trims s and collapses runs of whitespace to one space.
func CollapseSpaces(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// MatchesHeader reports whether the whitespace-collapsed line is the column header.
func (d *Descriptor) MatchesHeader(line string) bool {
	return d.Header.MatchString(CollapseSpaces(line))
}

// HasStartRule reports whether header matches can be confirmed by a start line.
func (d *Descriptor) HasStartRule() bool {
	return d.Start != nil
}

// StartsRecord reports whether the trimmed line opens a new transaction.
func (d *Descriptor) StartsRecord(line string) bool {
	return d.Start != nil && d.Start.MatchString(strings.TrimSpace(line))
}

// Continues reports whether the trimmed line may extend an open block.
func (d *Descriptor) Continues(line string) bool {
	if d.Continuation == nil {
		return true
	}
	return d.Continuation.MatchString(strings.TrimSpace(line))
}

// IsBareBalance reports whether the trimmed line is a lone running balance.
func (d *Descriptor) IsBareBalance(line string) bool {
	return d.BareBalance != nil && d.BareBalance.MatchString(strings.TrimSpace(line))
}

// IsStop reports whether the trimmed line is a footer or summary line.
func (d *Descriptor) IsStop(line string) bool {
	line = strings.TrimSpace(line)
	for _, re := range d.Stops {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Column returns the canonical column for a slot name.
func (d *Descriptor) Column(slot string) string {
	return d.Columns[slot]
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.ID, d.Name)
}

// validate checks the slot schema of every alternative against its pattern
// and the column map.
func (d *Descriptor) validate() error {
	if d.ID == "" || d.Name == "" {
		return fmt.Errorf("layout %q: id and name are required", d.ID)
	}
	if d.Header == nil {
		return fmt.Errorf("layout %s: header pattern is required", d.ID)
	}
	if d.Shape == nil {
		return fmt.Errorf("layout %s: shape is required", d.ID)
	}
	if len(d.Grammar) == 0 {
		return fmt.Errorf("layout %s: at least one grammar alternative is required", d.ID)
	}
	if len(d.DateLayouts) == 0 {
		return fmt.Errorf("layout %s: at least one date layout is required", d.ID)
	}

	for _, alt := range d.Grammar {
		if err := d.bindAlternative(alt); err != nil {
			return fmt.Errorf("layout %s, alternative %q: %w", d.ID, alt.Name, err)
		}
	}
	return nil
}

func (d *Descriptor) bindAlternative(alt *Alternative) error {
	if alt.Pattern == nil {
		return fmt.Errorf("pattern is required")
	}
	if alt.WithBalanceLine && d.BareBalance == nil {
		return fmt.Errorf("balance-line variant needs a bare balance rule")
	}

	groups := make(map[string]int)
	for i, name := range alt.Pattern.SubexpNames() {
		if name == "" {
			continue
		}
		if _, dup := groups[name]; dup {
			return fmt.Errorf("capture %q is declared twice", name)
		}
		groups[name] = i
	}

	slots := make(map[string]Slot, len(alt.Slots))
	for _, s := range alt.Slots {
		if _, ok := groups[s.Name]; !ok {
			return fmt.Errorf("slot %q has no capture group", s.Name)
		}
		if _, dup := slots[s.Name]; dup {
			return fmt.Errorf("slot %q is declared twice", s.Name)
		}
		slots[s.Name] = s
	}
	for name := range groups {
		if _, ok := slots[name]; !ok {
			return fmt.Errorf("capture group %q has no slot", name)
		}
	}

	for _, s := range alt.Slots {
		if s.AppendTo != "" {
			target, ok := slots[s.AppendTo]
			if !ok || target.AppendTo != "" {
				return fmt.Errorf("slot %q appends to unknown or appending slot %q", s.Name, s.AppendTo)
			}
			continue
		}
		column := d.Columns[s.Name]
		if column == "" {
			return fmt.Errorf("slot %q has no canonical column", s.Name)
		}
	}

	if narration := d.Shape.AppendField(); narration != "" {
		target, ok := slots[narration]
		if !ok || target.AppendTo != "" {
			return fmt.Errorf("continuation field %q is not a slot", narration)
		}
	}

	alt.groups = groups
	return nil
}
