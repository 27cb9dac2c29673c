package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
	"github.com/oshokin/mc-bootstrap/internal/logger"
)

const (
	// yesNoSuffix is appended to every question; the default answer is no.
	yesNoSuffix = " [y/N] "

	// LicenseURL is where the operator can read the Minecraft EULA.
	LicenseURL = "https://aka.ms/MinecraftEULA"

	// stopCommand is sent to the server console when the operator presses Ctrl+C.
	stopCommand = "stop"
)

// ErrInterrupted is returned when the operator presses Ctrl+C at a prompt.
var ErrInterrupted = errors.New("interrupted by operator")

// LineReader reads one line of operator input after showing a prompt.
// *readline.Instance satisfies it.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// Prompter asks yes/no questions over a LineReader.
type Prompter struct {
	rl  LineReader
	out io.Writer
}

// New creates a prompter reading from rl and printing notices to out.
func New(rl LineReader, out io.Writer) *Prompter {
	return &Prompter{
		rl:  rl,
		out: out,
	}
}

// NewTerminal creates a readline-backed prompter on stdin/stdout.
// The returned close function releases the terminal.
func NewTerminal(stdin io.ReadCloser, stdout io.Writer) (*Prompter, func() error, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:                  stdin,
		Stdout:                 stdout,
		InterruptPrompt:        "^C",
		DisableAutoSaveHistory: true,
		HistoryLimit:           -1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initialize readline: %w", err)
	}

	return New(rl, stdout), rl.Close, nil
}

// Ask shows question with a [y/N] suffix and returns the raw answer.
// End of input counts as an empty answer.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	p.rl.SetPrompt(question + yesNoSuffix)

	answer, err := p.rl.Readline()

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		answer = ""
	case errors.Is(err, readline.ErrInterrupt):
		return "", ErrInterrupted
	default:
		return "", fmt.Errorf("read answer: %w", err)
	}

	logger.DebugKV(ctx, "Operator answered", "question", question, "answer", answer)

	return answer, nil
}

// Confirm asks question and reports whether the answer was y or yes.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question)
	if err != nil {
		return false, err
	}

	return setup.IsYes(answer), nil
}

// AcceptLicense asks the operator to accept the Minecraft EULA.
func (p *Prompter) AcceptLicense(ctx context.Context) (setup.AcceptanceDecision, error) {
	_, _ = fmt.Fprintf(p.out, "\nMojang requires accepting the Minecraft EULA to run a server.\nYou can review it here: %s\n\n", LicenseURL)

	answer, err := p.Ask(ctx, "Do you accept the Minecraft EULA and want to set eula=true?")
	if err != nil {
		return setup.Declined, err
	}

	return setup.ParseAcceptance(answer), nil
}

// RunNow asks whether to start the server immediately.
func (p *Prompter) RunNow(ctx context.Context) (setup.RunDecision, error) {
	answer, err := p.Ask(ctx, "Start the server now?")
	if err != nil {
		return setup.Skip, err
	}

	return setup.ParseRunDecision(answer), nil
}

// Console returns a reader yielding every line the operator types, newline
// terminated, for use as the server's stdin. Ctrl+C becomes the server's stop command.
func (p *Prompter) Console() io.Reader {
	return &consoleReader{rl: p.rl}
}

type consoleReader struct {
	rl      LineReader
	pending []byte
}

// Read implements io.Reader.
func (c *consoleReader) Read(b []byte) (int, error) {
	if len(c.pending) == 0 {
		c.rl.SetPrompt("")

		line, err := c.rl.Readline()

		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt):
			line = stopCommand
		default:
			return 0, err //nolint:wrapcheck // io.EOF must reach io.Copy unwrapped.
		}

		c.pending = []byte(line + "\n")
	}

	n := copy(b, c.pending)
	c.pending = c.pending[n:]

	return n, nil
}
