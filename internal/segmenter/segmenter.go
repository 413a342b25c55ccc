// Package segmenter splits statement text into logical line blocks, one per
// candidate transaction.
//
// Segmentation is a finite state machine. Step is a pure transition function
// of (snapshot, line); Segmenter applies the returned actions to an open block.
package segmenter

import (
	"strings"

	"fjacquet/bankstmt/internal/layout"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
)

// DefaultBlankLineStop is the number of consecutive blank lines that ends a
// section once a transaction has been seen.
const DefaultBlankLineStop = 3

// State is the section state of the machine.
type State int

const (
	BeforeHeader State = iota
	InSection
	Stopped
)

func (s State) String() string {
	switch s {
	case BeforeHeader:
		return "before_header"
	case InSection:
		return "in_section"
	case Stopped:
		return "stopped"
	default:
		return "invalid"
	}
}

// Action is what the caller does with the line just stepped over.
type Action int

const (
	// Discard drops the line.
	Discard Action = iota
	// Header marks the column header line; it is not kept.
	Header
	// Start flushes the open block and opens a new one with the line.
	Start
	// Balance appends the line to the open block as its bare balance line.
	Balance
	// Continue appends the line to the open block as narration.
	Continue
	// Stop flushes the open block; every later line is ignored.
	Stop
)

func (a Action) String() string {
	return [...]string{"discard", "header", "start", "balance", "continue", "stop"}[a]
}

// Snapshot is the complete machine state between two lines.
type Snapshot struct {
	State     State
	Blank     int // consecutive blank lines seen
	Produced  int // transactions started so far
	OpenLines int // lines in the open block, 0 when none is open
}

// Step returns the next snapshot and the action for line.
func Step(l *layout.Descriptor, blankStop int, s Snapshot, line string) (Snapshot, Action) {
	trimmed := strings.TrimSpace(line)

	switch s.State {
	case Stopped:
		return s, Discard

	case BeforeHeader:
		if l.MatchesHeader(trimmed) {
			s.State = InSection
			return s, Header
		}
		return s, Discard
	}

	if trimmed == "" {
		s.Blank++
		if s.Blank >= blankStop && s.Produced > 0 {
			s.State, s.OpenLines = Stopped, 0
			return s, Stop
		}
		return s, Discard
	}
	s.Blank = 0

	switch {
	case s.Produced > 0 && l.IsStop(trimmed):
		s.State, s.OpenLines = Stopped, 0
		return s, Stop
	case l.StartsRecord(trimmed):
		s.Produced++
		s.OpenLines = 1
		return s, Start
	case l.MatchesHeader(trimmed):
		return s, Header
	case s.OpenLines == 1 && l.IsBareBalance(trimmed):
		s.OpenLines++
		return s, Balance
	case s.OpenLines > 0 && l.Continues(trimmed):
		s.OpenLines++
		return s, Continue
	default:
		return s, Discard
	}
}

// Segmenter runs the state machine for one layout. It keeps no state between
// calls and is safe for concurrent use.
type Segmenter struct {
	layout    *layout.Descriptor
	blankStop int
	logger    logging.Logger
}

// New creates a Segmenter. A non-positive blankStop selects DefaultBlankLineStop.
func New(l *layout.Descriptor, blankStop int, logger logging.Logger) *Segmenter {
	if blankStop <= 0 {
		blankStop = DefaultBlankLineStop
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Segmenter{layout: l, blankStop: blankStop, logger: logger}
}

// Segment splits a single text, starting before the header.
func (s *Segmenter) Segment(text string) []models.Block {
	blocks, _ := s.run(text, 1, Snapshot{State: BeforeHeader}, nil)
	return blocks
}

// SegmentPages searches the header on page 1, then page 2, and segments from
// there on. Pages after the header page start inside the section; only the
// count of produced transactions carries over page boundaries. It returns the
// blocks and the 1-based header page, 0 when no header was found.
func (s *Segmenter) SegmentPages(pages []string) ([]models.Block, int) {
	headerPage := 0
	for i := 0; i < len(pages) && i < 2; i++ {
		if s.hasHeader(pages[i]) {
			headerPage = i + 1
			break
		}
	}
	if headerPage == 0 {
		return nil, 0
	}

	var blocks []models.Block
	snap := Snapshot{State: BeforeHeader}
	for i := headerPage - 1; i < len(pages); i++ {
		if i >= headerPage {
			snap = Snapshot{State: InSection, Produced: snap.Produced}
		}
		blocks, snap = s.run(pages[i], i+1, snap, blocks)
	}
	return blocks, headerPage
}

func (s *Segmenter) hasHeader(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if s.layout.MatchesHeader(line) {
			return true
		}
	}
	return false
}

// run steps over every line of one page, appending finished blocks to out.
func (s *Segmenter) run(text string, page int, snap Snapshot, out []models.Block) ([]models.Block, Snapshot) {
	var open *models.Block
	flush := func() {
		if open != nil {
			out = append(out, *open)
			open = nil
		}
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for n, raw := range lines {
		var action Action
		snap, action = Step(s.layout, s.blankStop, snap, raw)
		line := models.Line{Text: layout.CollapseSpaces(raw), Number: n + 1}

		switch action {
		case Start:
			flush()
			line.Role = models.RoleStart
			open = &models.Block{Index: len(out), Page: page, Lines: []models.Line{line}}
		case Balance:
			line.Role = models.RoleBalance
			open.Lines = append(open.Lines, line)
		case Continue:
			line.Role = models.RoleContinuation
			open.Lines = append(open.Lines, line)
		case Stop:
			flush()
			s.logger.Debug("Section stopped",
				logging.F(logging.FieldPage, page),
				logging.F(logging.FieldLine, n+1),
				logging.F(logging.FieldCount, snap.Produced))
		}
		if snap.State == Stopped {
			break
		}
	}
	flush()
	return out, snap
}
