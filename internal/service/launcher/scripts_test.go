package launcher

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWriteScripts checks both launchers exist and reference the server command.
func TestWriteScripts(t *testing.T) {
	t.Parallel()

	r := &Runner{Dir: t.TempDir(), MinHeap: "2G", MaxHeap: "4G", NoGUI: true}

	paths, err := r.WriteScripts("")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(r.Dir, ShellScriptName),
		filepath.Join(r.Dir, BatchScriptName),
	}, paths)

	const command = `java -Xms2G -Xmx4G -jar "server.jar" nogui`

	sh, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.Equal(t, "#!/usr/bin/env bash\nset -euo pipefail\ncd \"$(dirname \"$0\")\"\n"+command+"\n", string(sh))

	bat, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Equal(t, "@echo off\r\nsetlocal\r\ncd /d %~dp0\r\n"+command+"\r\npause\r\n", string(bat))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(paths[0])
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

// TestWriteScripts_MissingDir fails when the server directory is absent.
func TestWriteScripts_MissingDir(t *testing.T) {
	t.Parallel()

	r := &Runner{Dir: filepath.Join(t.TempDir(), "absent"), MinHeap: "1G", MaxHeap: "1G"}

	_, err := r.WriteScripts("")
	require.Error(t, err)
}
