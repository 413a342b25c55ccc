package root

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bankstmt", Cmd.Use)
	assert.Contains(t, Cmd.Short, "bank statement")
	assert.NotNil(t, Cmd.PersistentPreRunE)
	assert.NotNil(t, Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"bank", "b"},
		{"config", ""},
		{"log-level", ""},
	}
	for _, tt := range tests {
		f := Cmd.PersistentFlags().Lookup(tt.name)
		require.NotNil(t, f, tt.name)
		assert.Equal(t, tt.shorthand, f.Shorthand, tt.name)
	}
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("categorization:\n  rules_file: "+
		filepath.Join(dir, "categories.yaml")+"\n  corrections_file: "+filepath.Join(dir, "corrections.csv")+"\n"), 0600))

	AppContainer = nil
	_, err := GetContainer()
	assert.Error(t, err)

	SharedFlags.ConfigFile = cfgFile
	SharedFlags.LogLevel = "warn"
	defer func() { SharedFlags = CommonFlags{} }()

	require.NoError(t, initialize(&cobra.Command{}))
	c, err := GetContainer()
	require.NoError(t, err)
	assert.Equal(t, "warn", AppConfig.Log.Level)
	assert.NoError(t, c.Close())
}

func TestInitialize_BadConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log:\n  level: loud\n"), 0600))

	SharedFlags.ConfigFile = cfgFile
	defer func() { SharedFlags = CommonFlags{} }()
	assert.Error(t, initialize(&cobra.Command{}))
}
