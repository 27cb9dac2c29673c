package setup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseAcceptance checks the recognised affirmative answers and the decline fallback.
func TestParseAcceptance(t *testing.T) {
	t.Parallel()

	for _, answer := range []string{"y", "Y", "yes", "YES", "Yes", " y \n"} {
		require.Equal(t, Accepted, ParseAcceptance(answer), "answer %q", answer)
	}

	for _, answer := range []string{"", "n", "no", "NO", "yep", "true", "1", "ye s"} {
		require.Equal(t, Declined, ParseAcceptance(answer), "answer %q", answer)
	}
}

// TestParseRunDecision mirrors acceptance parsing for the run prompt.
func TestParseRunDecision(t *testing.T) {
	t.Parallel()

	require.Equal(t, RunNow, ParseRunDecision("yes"))
	require.Equal(t, RunNow, ParseRunDecision("Y"))
	require.Equal(t, Skip, ParseRunDecision(""))
	require.Equal(t, Skip, ParseRunDecision("later"))
}

// TestDecisionStrings ensures decisions render readable names for logs.
func TestDecisionStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "accepted", Accepted.String())
	require.Equal(t, "declined", Declined.String())
	require.Equal(t, "run-now", RunNow.String())
	require.Equal(t, "skip", Skip.String())
}
