package layouts

import (
	"bytes"
	"strings"
	"testing"

	"fjacquet/bankstmt/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, layout.Default()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "SBI"))
	assert.Contains(t, lines[2], "balance reconciled")
	assert.True(t, strings.HasPrefix(lines[3], "UNION"))
}
