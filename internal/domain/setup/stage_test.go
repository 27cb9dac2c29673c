package setup

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTracker_AcceptedPath walks the happy path to ServerRunning.
func TestTracker_AcceptedPath(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	require.Equal(t, Start, tr.Current())

	for _, next := range []Stage{ArtifactFetched, ConfigGenerated, LicenseAccepted, ServerRunning} {
		require.NoError(t, tr.Advance(next))
	}

	require.True(t, tr.Current().Terminal())
	require.Equal(t, []Stage{Start, ArtifactFetched, ConfigGenerated, LicenseAccepted, ServerRunning}, tr.History())
}

// TestTracker_DeclinedIsDeadEnd ensures nothing follows a declined license.
func TestTracker_DeclinedIsDeadEnd(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	require.NoError(t, tr.Advance(ArtifactFetched))
	require.NoError(t, tr.Advance(ConfigGenerated))
	require.NoError(t, tr.Advance(LicenseDeclinedPendingManualEdit))
	require.True(t, tr.Current().Terminal())

	err := tr.Advance(ServerRunning)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, LicenseDeclinedPendingManualEdit, tr.Current())
}

// TestTracker_RejectsSkips verifies stages cannot be skipped.
func TestTracker_RejectsSkips(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	require.ErrorIs(t, tr.Advance(ConfigGenerated), ErrInvalidTransition)
	require.ErrorIs(t, tr.Advance(Start), ErrInvalidTransition)
	require.Equal(t, Start, tr.Current())
}

// TestStageString covers known and unknown stages.
func TestStageString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "license-declined", LicenseDeclinedPendingManualEdit.String())
	require.Equal(t, "stage(42)", Stage(42).String())
}

// TestAdvice returns a hint for each error kind, including wrapped errors.
func TestAdvice(t *testing.T) {
	t.Parallel()

	for _, kind := range []error{
		ErrNetwork, ErrFilesystem, ErrProcessLaunch, ErrConfigNotFound,
		ErrChecksumMismatch, ErrVersionNotFound, ErrAlreadyRunning,
	} {
		require.NotEmpty(t, Advice(fmt.Errorf("step: %w", kind)), kind.Error())
	}

	require.Empty(t, Advice(errors.New("other")))
}
