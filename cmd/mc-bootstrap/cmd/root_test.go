package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootCmd_ErrorOutput prints errors raised before the bootstrap starts and
// leaves the ones it has already logged alone.
func TestRootCmd_ErrorOutput(t *testing.T) {
	var stderr bytes.Buffer

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&stderr)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"--log-level", "loud"})
	require.Error(t, rootCmd.Execute())
	require.Contains(t, stderr.String(), `unknown log level "loud"`)

	stderr.Reset()

	rootCmd.SetArgs([]string{
		"--log-level", "error",
		"--config", filepath.Join(t.TempDir(), "absent.yaml"),
		"--xmx", "lots",
	})
	require.Error(t, rootCmd.Execute())
	require.Empty(t, stderr.String())
}
