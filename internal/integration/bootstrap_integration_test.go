package integration

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/mc-bootstrap/internal/config"
	"github.com/oshokin/mc-bootstrap/internal/service/bootstrap"
)

// environment is a server directory, a settings file and a fake download source.
type environment struct {
	dir        string
	configPath string
	out        *bytes.Buffer
}

// newEnvironment writes settings pointing at an httptest jar source and a
// shell script standing in for java.
func newEnvironment(t *testing.T) *environment {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake java is a shell script")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "server jar bytes")
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	java := filepath.Join(root, "java")
	script := `#!/bin/sh
if grep -q '^eula=true' eula.txt 2>/dev/null; then
  printf 'online-mode=true\nwhite-list=false\n' > server.properties
  exit 0
fi
printf '#EULA\neula=false\n' > eula.txt
exit 1
`
	require.NoError(t, os.WriteFile(java, []byte(script), 0o755))

	env := &environment{
		dir:        filepath.Join(root, "server"),
		configPath: filepath.Join(root, "mc-bootstrap.yaml"),
		out:        new(bytes.Buffer),
	}

	err := config.Save(env.configPath, &config.Config{
		ServerDir:   env.dir,
		DownloadURL: srv.URL + "/server.jar",
		JavaPath:    java,
		MinHeap:     "1G",
		MaxHeap:     "2G",
		Timeout:     10 * time.Second,
	})
	require.NoError(t, err)

	return env
}

func (e *environment) options(stdin string) *bootstrap.Options {
	return &bootstrap.Options{
		ConfigPath: e.configPath,
		Stdin:      io.NopCloser(strings.NewReader(stdin)),
		Stdout:     e.out,
		Stderr:     e.out,
	}
}

func (e *environment) read(t *testing.T, name string) string {
	t.Helper()

	contents, err := os.ReadFile(filepath.Join(e.dir, name))
	require.NoError(t, err)

	return string(contents)
}

// TestBootstrap_AgreeWithoutRun accepts the EULA by flag and skips the server start.
func TestBootstrap_AgreeWithoutRun(t *testing.T) {
	t.Parallel()

	env := newEnvironment(t)

	run := false
	opts := env.options("")
	opts.AgreeEULA = true
	opts.RunServer = &run

	require.NoError(t, bootstrap.Run(context.Background(), opts))

	require.Equal(t, "server jar bytes", env.read(t, "server.jar"))
	require.Equal(t, "#EULA\neula=true\n", env.read(t, bootstrap.EULAFilename))
	require.Contains(t, env.read(t, "start.sh"), `-Xms1G -Xmx2G -jar "server.jar" nogui`)

	_, err := os.Stat(filepath.Join(env.dir, bootstrap.PropertiesFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestBootstrap_PromptedAcceptAndRun answers both prompts on stdin and patches server.properties.
func TestBootstrap_PromptedAcceptAndRun(t *testing.T) {
	t.Parallel()

	env := newEnvironment(t)

	whitelist := true
	opts := env.options("yes\ny\n")
	opts.Whitelist = &whitelist

	require.NoError(t, bootstrap.Run(context.Background(), opts))

	require.Equal(t, "#EULA\neula=true\n", env.read(t, bootstrap.EULAFilename))
	require.Equal(t, "online-mode=true\nwhite-list=true\nenforce-whitelist=true\n",
		env.read(t, bootstrap.PropertiesFilename))
}

// TestBootstrap_Decline leaves eula.txt as the server wrote it.
func TestBootstrap_Decline(t *testing.T) {
	t.Parallel()

	env := newEnvironment(t)

	require.NoError(t, bootstrap.Run(context.Background(), env.options("n\n")))
	require.Equal(t, "#EULA\neula=false\n", env.read(t, bootstrap.EULAFilename))
}
