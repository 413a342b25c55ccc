package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bankstmt/internal/config"
	"fjacquet/bankstmt/internal/container"
	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/pdftext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hdfcStatement = "HDFC BANK\n" +
	"Date  Narration  Chq./Ref.No.  Value Dt  Withdrawal Amt.  Deposit Amt.  Closing Balance\n" +
	"01/04/23  UPI-ZOMATO  0000123  01/04/23  250.00  9,750.00\n" +
	"02/04/23  SALARY APR  0000456  02/04/23  50,000.00  59,750.00\n" +
	"PUBMATIC\n"

func testContainer(t *testing.T) (*container.Container, string) {
	t.Helper()
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	yaml := "categorization:\n" +
		"  rules_file: " + filepath.Join(dir, "categories.yaml") + "\n" +
		"  corrections_file: " + filepath.Join(dir, "corrections.csv") + "\n" +
		"  model_file: " + filepath.Join(dir, "classifier.model") + "\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(yaml), 0600))

	cfg, err := config.Load(cfgFile)
	require.NoError(t, err)
	c, err := container.NewContainer(context.Background(), cfg,
		container.WithLogger(logging.Nop()), container.WithExtractor(pdftext.TextFileExtractor{}))
	require.NoError(t, err)
	return c, dir
}

func TestRun(t *testing.T) {
	c, dir := testContainer(t)
	in := filepath.Join(dir, "in")
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(in, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.txt"), []byte(hdfcStatement), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "b.txt"), []byte(""), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "c.txt"), []byte("no bank here"), 0600))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, &out, in, outDir, ""))
	assert.Contains(t, out.String(), "OK    "+filepath.Join(in, "a.txt"))
	assert.Contains(t, out.String(), "FAIL  "+filepath.Join(in, "b.txt"))
	assert.Contains(t, out.String(), "SKIP  "+filepath.Join(in, "c.txt"))
	assert.Contains(t, out.String(), "1 of 3 statements converted")

	_, err := os.Stat(filepath.Join(outDir, "a_hdfc_2023-04-01_2023-04-02.xlsx"))
	assert.NoError(t, err)
}

func TestRun_RequiresDirectories(t *testing.T) {
	c, _ := testContainer(t)
	var out bytes.Buffer
	assert.EqualError(t, run(context.Background(), c, &out, "", "x", ""), "input and output directories must be specified")
}
