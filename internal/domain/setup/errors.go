package setup

import "errors"

var (
	// ErrNetwork is returned when an artifact or manifest cannot be downloaded.
	ErrNetwork = errors.New("network error")
	// ErrFilesystem is returned when a local file cannot be read or written.
	ErrFilesystem = errors.New("filesystem error")
	// ErrProcessLaunch is returned when the server process cannot be started.
	ErrProcessLaunch = errors.New("process launch error")
	// ErrConfigNotFound is returned when eula.txt is missing at acceptance time.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrChecksumMismatch is returned when a downloaded artifact fails verification.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrVersionNotFound is returned when the requested game version is not in the manifest.
	ErrVersionNotFound = errors.New("version not found")
	// ErrAlreadyRunning is returned when another bootstrapper holds the run marker.
	ErrAlreadyRunning = errors.New("another bootstrapper is running in this directory")
	// ErrInvalidTransition is returned when the workflow skips or repeats a stage.
	ErrInvalidTransition = errors.New("invalid stage transition")
)

// Advice returns a short hint telling the operator how to fix err, or "" if none applies.
func Advice(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return "check network access to the download host and run again"
	case errors.Is(err, ErrChecksumMismatch):
		return "the download was corrupted, run again to fetch it once more"
	case errors.Is(err, ErrFilesystem):
		return "check permissions and free space in the server directory"
	case errors.Is(err, ErrProcessLaunch):
		return "install a Java runtime (Temurin or OpenJDK) and make sure 'java' is on PATH or JAVA_HOME is set"
	case errors.Is(err, ErrConfigNotFound):
		return "run the server once so it generates eula.txt, then run again"
	case errors.Is(err, ErrVersionNotFound):
		return "use --latest or check the version id (for example 1.21.4)"
	case errors.Is(err, ErrAlreadyRunning):
		return "wait for the other run to finish or remove the stale lock file"
	default:
		return ""
	}
}
