package launcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
)

// TestFindJava_Explicit resolves an explicit executable path.
func TestFindJava_Explicit(t *testing.T) {
	java := fakeJava(t, 0)

	got, err := FindJava(java)
	require.NoError(t, err)
	require.Equal(t, java, got)

	_, err = FindJava(filepath.Join(t.TempDir(), "missing-java"))
	require.ErrorIs(t, err, setup.ErrProcessLaunch)
}

// TestFindJava_JavaHome prefers $JAVA_HOME/bin/java over PATH.
func TestFindJava_JavaHome(t *testing.T) {
	home := t.TempDir()
	bin := filepath.Join(home, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))

	java := filepath.Join(bin, DefaultJava+executableExtension())
	require.NoError(t, os.WriteFile(java, []byte("#!/bin/sh\n"), 0o755))

	t.Setenv("JAVA_HOME", home)
	t.Setenv("PATH", t.TempDir())

	got, err := FindJava("")
	require.NoError(t, err)
	require.Equal(t, java, got)
}

// TestFindJava_NotFound reports ErrProcessLaunch when java is nowhere.
func TestFindJava_NotFound(t *testing.T) {
	t.Setenv("JAVA_HOME", "")
	t.Setenv("PATH", t.TempDir())

	_, err := FindJava("")
	require.ErrorIs(t, err, setup.ErrProcessLaunch)
	require.ErrorIs(t, err, errJavaNotFound)
}
