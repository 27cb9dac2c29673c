package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
	"github.com/oshokin/mc-bootstrap/internal/logger"
)

const (
	// DefaultJarName is the artifact file name inside the server directory.
	DefaultJarName = "server.jar"

	// DefaultGracePeriod is how long an interrupted server gets to save and exit.
	DefaultGracePeriod = 30 * time.Second
)

var errNoJava = errors.New("java executable is not set")

// Runner starts the server jar with fixed heap flags.
type Runner struct {
	// Java is the java executable.
	Java string
	// Dir is the server directory used as working directory.
	Dir string
	// JarName is the jar file inside Dir.
	JarName string
	// MinHeap and MaxHeap are passed as -Xms and -Xmx.
	MinHeap string
	MaxHeap string
	// NoGUI appends "nogui".
	NoGUI bool
	// Stdin, Stdout and Stderr are attached to the child process.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// GracePeriod is the delay between interrupting and killing the child on cancellation.
	GracePeriod time.Duration
}

// Args returns the java arguments.
func (r *Runner) Args() []string {
	args := []string{"-Xms" + r.MinHeap, "-Xmx" + r.MaxHeap, "-jar", r.jarName()}
	if r.NoGUI {
		args = append(args, "nogui")
	}

	return args
}

// CommandLine renders the invocation for start scripts, with java as the program name.
func (r *Runner) CommandLine(java string) string {
	if java == "" {
		java = DefaultJava
	}

	parts := []string{quote(java), "-Xms" + r.MinHeap, "-Xmx" + r.MaxHeap, "-jar", `"` + r.jarName() + `"`}
	if r.NoGUI {
		parts = append(parts, "nogui")
	}

	return strings.Join(parts, " ")
}

// RunOnce starts the server and waits for it to exit. The server is expected to
// stop on its own, usually with a non-zero code, after writing eula.txt.
// Only a failure to start is an error.
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	logger.InfoKV(ctx, "Running server once to generate eula.txt", "dir", r.Dir)

	return r.run(ctx, nil)
}

// Launch runs the server in the foreground with the configured stdin attached and
// blocks until it exits.
// Cancelling ctx sends os.Interrupt, kills the server after GracePeriod and
// reports its exit code without an error.
func (r *Runner) Launch(ctx context.Context) (int, error) {
	logger.InfoKV(ctx, "Starting server", "dir", r.Dir, "args", strings.Join(r.Args(), " "))

	return r.run(ctx, r.Stdin)
}

func (r *Runner) run(ctx context.Context, stdin io.Reader) (int, error) {
	if r.Java == "" {
		return -1, fmt.Errorf("%w: %w", setup.ErrProcessLaunch, errNoJava)
	}

	cmd := exec.CommandContext(ctx, r.Java, r.Args()...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}

		return cmd.Process.Signal(os.Interrupt)
	}

	cmd.WaitDelay = r.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultGracePeriod
	}

	// Wait must not block on a console read once the server has exited,
	// so stdin is pumped through a pipe that Wait closes.
	var stdinPipe io.WriteCloser

	if stdin != nil {
		var err error

		if stdinPipe, err = cmd.StdinPipe(); err != nil {
			return -1, fmt.Errorf("%w: stdin pipe: %w", setup.ErrProcessLaunch, err)
		}
	}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("%w: start %s: %w", setup.ErrProcessLaunch, r.Java, err)
	}

	if stdinPipe != nil {
		go func() {
			_, _ = io.Copy(stdinPipe, stdin)
			_ = stdinPipe.Close()
		}()
	}

	logger.DebugKV(ctx, "Server process started", "pid", cmd.Process.Pid)

	err := cmd.Wait()

	// An interrupted server that has stopped is not a failure, whatever it exited with.
	if ctx.Err() != nil && cmd.ProcessState != nil {
		code := cmd.ProcessState.ExitCode()
		if !cmd.ProcessState.Exited() {
			logger.WarnKV(ctx, "Server process terminated after interrupt", "state", cmd.ProcessState.String())
		}

		logger.InfoKV(ctx, "Server process stopped after interrupt", "code", code)

		return code, nil
	}

	// The server exited but a process it spawned kept the output open past the grace period.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		err = nil
		if !cmd.ProcessState.Success() {
			err = &exec.ExitError{ProcessState: cmd.ProcessState}
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.InfoKV(ctx, "Server process exited", "code", exitErr.ExitCode())

		return exitErr.ExitCode(), nil
	}

	if err != nil {
		return -1, fmt.Errorf("wait for server process: %w", err)
	}

	logger.InfoKV(ctx, "Server process exited", "code", 0)

	return 0, nil
}

func (r *Runner) jarName() string {
	if r.JarName == "" {
		return DefaultJarName
	}

	return r.JarName
}

// quote wraps s in double quotes when it contains spaces.
func quote(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}

	return s
}
