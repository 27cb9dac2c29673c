package setup

import "fmt"

// Stage is a step of the bootstrap workflow.
type Stage int

const (
	// Start is the initial stage.
	Start Stage = iota
	// ArtifactFetched means server.jar is present in the server directory.
	ArtifactFetched
	// ConfigGenerated means eula.txt exists.
	ConfigGenerated
	// LicenseAccepted means eula=true was written.
	LicenseAccepted
	// LicenseDeclinedPendingManualEdit is terminal: the operator must edit eula.txt.
	LicenseDeclinedPendingManualEdit
	// ServerRunning means the server was started in the foreground.
	ServerRunning
	// Idle means setup finished without starting the server.
	Idle
)

//nolint:gochecknoglobals // Lookup table for String.
var stageNames = map[Stage]string{
	Start:                            "start",
	ArtifactFetched:                  "artifact-fetched",
	ConfigGenerated:                  "config-generated",
	LicenseAccepted:                  "license-accepted",
	LicenseDeclinedPendingManualEdit: "license-declined",
	ServerRunning:                    "server-running",
	Idle:                             "idle",
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}

	return fmt.Sprintf("stage(%d)", int(s))
}

// Terminal reports whether no transition leaves s.
func (s Stage) Terminal() bool {
	return len(s.next()) == 0
}

// CanAdvance reports whether the workflow may move from s to next.
func (s Stage) CanAdvance(next Stage) bool {
	for _, allowed := range s.next() {
		if allowed == next {
			return true
		}
	}

	return false
}

func (s Stage) next() []Stage {
	switch s {
	case Start:
		return []Stage{ArtifactFetched}
	case ArtifactFetched:
		return []Stage{ConfigGenerated}
	case ConfigGenerated:
		return []Stage{LicenseAccepted, LicenseDeclinedPendingManualEdit}
	case LicenseAccepted:
		return []Stage{ServerRunning, Idle}
	default:
		return nil
	}
}

// Tracker records the current stage and enforces the transition table.
type Tracker struct {
	current Stage
	history []Stage
}

// NewTracker returns a tracker positioned at Start.
func NewTracker() *Tracker {
	return &Tracker{
		current: Start,
		history: []Stage{Start},
	}
}

// Current returns the current stage.
func (t *Tracker) Current() Stage {
	return t.current
}

// History returns every stage visited so far, in order.
func (t *Tracker) History() []Stage {
	return append([]Stage(nil), t.history...)
}

// Advance moves to next or returns ErrInvalidTransition.
func (t *Tracker) Advance(next Stage) error {
	if !t.current.CanAdvance(next) {
		return fmt.Errorf("%s -> %s: %w", t.current, next, ErrInvalidTransition)
	}

	t.current = next
	t.history = append(t.history, next)

	return nil
}
