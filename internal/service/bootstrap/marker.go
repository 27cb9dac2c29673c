package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
	"github.com/oshokin/mc-bootstrap/internal/logger"
)

// MarkerFilename marks that a bootstrapper is working in the server directory.
const MarkerFilename = ".mc-bootstrap.lock"

const markerFileMode os.FileMode = 0o644

// runMarker is the lock file held for the duration of a run.
type runMarker struct {
	path string
}

// acquireMarker creates the run marker in dir. A marker left by a process that
// no longer exists is removed; a live one makes the call fail with ErrAlreadyRunning.
func acquireMarker(ctx context.Context, dir string) (*runMarker, error) {
	path := filepath.Join(dir, MarkerFilename)

	if pid, ok := readMarkerPID(path); ok {
		if pid != os.Getpid() && isProcessAlive(pid) {
			return nil, fmt.Errorf("pid %d holds %s: %w", pid, path, setup.ErrAlreadyRunning)
		}

		logger.InfoKV(ctx, "Removing stale run marker", "path", path, "pid", pid)

		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: remove stale marker: %w", setup.ErrFilesystem, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, markerFileMode)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%s: %w", path, setup.ErrAlreadyRunning)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: create marker: %w", setup.ErrFilesystem, err)
	}

	_, err = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(path)

		return nil, fmt.Errorf("%w: write marker: %w", setup.ErrFilesystem, err)
	}

	return &runMarker{path: path}, nil
}

// release removes the marker.
func (m *runMarker) release(ctx context.Context) {
	if m == nil {
		return
	}

	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Unable to remove run marker", "path", m.path, "error", err)
	}
}

// readMarkerPID returns the PID stored in the marker at path.
// An unreadable or malformed marker reports pid 0 so it is treated as stale.
func readMarkerPID(path string) (int, bool) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil || pid <= 0 {
		return 0, true
	}

	return pid, true
}

// isProcessAlive reports whether a process with the given PID exists.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := ps.FindProcess(pid)

	return err == nil && process != nil
}
