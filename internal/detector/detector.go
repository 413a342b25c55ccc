// Package detector selects the bank layout a statement text was printed with.
package detector

import (
	"strings"

	"fjacquet/bankstmt/internal/layout"
	"fjacquet/bankstmt/internal/logging"
)

// DefaultLookahead is how many lines after a header are searched for a start line.
const DefaultLookahead = 10

// Method tells how a layout was detected.
type Method string

const (
	MethodName   Method = "name"
	MethodHeader Method = "header"
)

// Match is a successful detection.
type Match struct {
	Layout *layout.Descriptor
	Method Method
	Page   int // 1-based page the match was found on; 0 for Detect
}

// Detector matches statement text against a layout registry. Not finding a
// layout is a normal outcome, never an error.
type Detector struct {
	registry  *layout.Registry
	lookahead int
	logger    logging.Logger
}

// New creates a Detector. A non-positive lookahead selects DefaultLookahead and
// a nil logger discards output.
func New(registry *layout.Registry, lookahead int, logger logging.Logger) *Detector {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Detector{registry: registry, lookahead: lookahead, logger: logger}
}

// Detect returns the first layout whose bank name occurs in text, or failing
// that the first layout whose header occurs in text and is confirmed by a
// start line within the lookahead window.
func (d *Detector) Detect(text string) (Match, bool) {
	if strings.TrimSpace(text) == "" {
		return Match{}, false
	}

	lower := strings.ToLower(text)
	for _, l := range d.registry.All() {
		if strings.Contains(lower, strings.ToLower(l.Name)) {
			d.logger.Debug("Layout detected by bank name", logging.F(logging.FieldLayout, string(l.ID)))
			return Match{Layout: l, Method: MethodName}, true
		}
	}

	lines := splitLines(text)
	for _, l := range d.registry.All() {
		if d.headerConfirmed(l, lines) {
			d.logger.Debug("Layout detected by header", logging.F(logging.FieldLayout, string(l.ID)))
			return Match{Layout: l, Method: MethodHeader}, true
		}
	}
	return Match{}, false
}

// DetectPages runs Detect on the first page, then on the second.
func (d *Detector) DetectPages(pages []string) (Match, bool) {
	for i := 0; i < len(pages) && i < 2; i++ {
		if m, ok := d.Detect(pages[i]); ok {
			m.Page = i + 1
			return m, true
		}
		d.logger.Debug("No layout on page", logging.F(logging.FieldPage, i+1))
	}
	return Match{}, false
}

func (d *Detector) headerConfirmed(l *layout.Descriptor, lines []string) bool {
	for i, line := range lines {
		if !l.MatchesHeader(line) {
			continue
		}
		if !l.HasStartRule() {
			return true
		}
		end := min(i+1+d.lookahead, len(lines))
		for _, next := range lines[i+1 : end] {
			if l.StartsRecord(next) {
				return true
			}
		}
	}
	return false
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
