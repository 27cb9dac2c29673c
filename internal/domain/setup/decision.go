package setup

import "strings"

// AcceptanceDecision is the operator's answer to the license prompt.
type AcceptanceDecision int

const (
	// Declined leaves eula.txt untouched.
	Declined AcceptanceDecision = iota
	// Accepted sets eula=true.
	Accepted
)

// String implements fmt.Stringer.
func (d AcceptanceDecision) String() string {
	if d == Accepted {
		return "accepted"
	}

	return "declined"
}

// RunDecision is the operator's answer to the "run now" prompt.
type RunDecision int

const (
	// Skip ends the invocation without starting the server.
	Skip RunDecision = iota
	// RunNow starts the server in the foreground.
	RunNow
)

// String implements fmt.Stringer.
func (d RunDecision) String() string {
	if d == RunNow {
		return "run-now"
	}

	return "skip"
}

// IsYes reports whether answer is an affirmative reply: "y" or "yes" in any case.
// Surrounding whitespace is ignored; anything else, including "", is a no.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ParseAcceptance maps a prompt answer onto an AcceptanceDecision.
func ParseAcceptance(answer string) AcceptanceDecision {
	if IsYes(answer) {
		return Accepted
	}

	return Declined
}

// ParseRunDecision maps a prompt answer onto a RunDecision.
func ParseRunDecision(answer string) RunDecision {
	if IsYes(answer) {
		return RunNow
	}

	return Skip
}
