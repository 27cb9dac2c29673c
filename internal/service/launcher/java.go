package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
)

// DefaultJava is the java command used when nothing more specific is known.
const DefaultJava = "java"

var errJavaNotFound = errors.New("java executable not found")

// FindJava locates the java executable: explicit first, then $JAVA_HOME/bin, then PATH.
func FindJava(explicit string) (string, error) {
	if explicit != "" {
		path, err := exec.LookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", setup.ErrProcessLaunch, explicit, err)
		}

		return path, nil
	}

	if home := os.Getenv("JAVA_HOME"); home != "" {
		candidate := filepath.Join(home, "bin", DefaultJava+executableExtension())
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	path, err := exec.LookPath(DefaultJava)
	if err != nil {
		return "", fmt.Errorf("%w: %w", setup.ErrProcessLaunch, errJavaNotFound)
	}

	return path, nil
}

// executableExtension returns ".exe" on Windows and "" elsewhere.
func executableExtension() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}

	return ""
}
