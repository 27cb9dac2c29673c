package version

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := Get()
	require.Equal(t, Version, info.Version)
	require.Equal(t, runtime.Version(), info.GoVersion)
	require.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	require.Contains(t, info.String(), "mc-bootstrap "+Version)
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	ua := UserAgent()
	require.True(t, strings.HasPrefix(ua, "mc-bootstrap/"+Version+" "))
	require.Contains(t, ua, runtime.GOOS)
}

// TestAttachCobraVersionCommand runs the attached subcommand with and without --short.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		args []string
		want string
	}{
		{args: []string{"version"}, want: Get().String() + "\n"},
		{args: []string{"version", "--short"}, want: Version + "\n"},
	} {
		root := &cobra.Command{Use: "mc-bootstrap"}
		AttachCobraVersionCommand(root)

		var out bytes.Buffer

		root.SetOut(&out)
		root.SetArgs(tc.args)

		require.NoError(t, root.Execute())
		require.Equal(t, tc.want, out.String())
	}
}
