package layout

import (
	"strings"

	"fjacquet/bankstmt/internal/models"
)

// Shape is the structural family of a layout. The set is closed: Flattened
// and Anchored are the only implementations.
type Shape interface {
	// Input builds the grammar input of alt from the block, or reports that
	// alt does not apply to the block.
	Input(b models.Block, alt *Alternative) (string, bool)
	// Trailing returns the lines alt did not consume, in order.
	Trailing(b models.Block, alt *Alternative) []string
	// AppendField is the slot trailing lines are appended to ("" for none).
	AppendField() string

	sealed()
}

// Flattened layouts match one grammar against all lines of a block joined
// with single spaces.
type Flattened struct{}

func (Flattened) Input(b models.Block, _ *Alternative) (string, bool) {
	if len(b.Lines) == 0 {
		return "", false
	}
	return b.Text(), true
}

func (Flattened) Trailing(models.Block, *Alternative) []string { return nil }
func (Flattened) AppendField() string                          { return "" }
func (Flattened) sealed()                                       {}

// Anchored layouts match the start line (plus the bare balance line for the
// balance-line variant); remaining lines are narration appended to Narration.
type Anchored struct {
	Narration string
}

func (Anchored) Input(b models.Block, alt *Alternative) (string, bool) {
	if len(b.Lines) == 0 {
		return "", false
	}
	hasBalanceLine := len(b.Lines) > 1 && b.Lines[1].Role == models.RoleBalance
	if alt.WithBalanceLine != hasBalanceLine {
		// A bare balance line is consumed only by the balance-line variant.
		return "", false
	}
	if !hasBalanceLine {
		return b.Lines[0].Text, true
	}
	return b.Lines[0].Text + " " + b.Lines[1].Text, true
}

func (Anchored) Trailing(b models.Block, alt *Alternative) []string {
	consumed := 1
	if alt.WithBalanceLine {
		consumed = 2
	}
	if len(b.Lines) <= consumed {
		return nil
	}
	out := make([]string, 0, len(b.Lines)-consumed)
	for _, l := range b.Lines[consumed:] {
		if t := strings.TrimSpace(l.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (a Anchored) AppendField() string { return a.Narration }
func (Anchored) sealed()               {}
