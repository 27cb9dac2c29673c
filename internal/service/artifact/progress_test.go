package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestProgressWriter_Steps checks the step size and that writes are never short.
func TestProgressWriter_Steps(t *testing.T) {
	t.Parallel()

	p := newProgressWriter(context.Background(), "server.jar", 1000)
	require.Equal(t, int64(100), p.next)

	n, err := p.Write(make([]byte, 250))
	require.NoError(t, err)
	require.Equal(t, 250, n)
	require.Equal(t, int64(300), p.next)

	unknown := newProgressWriter(context.Background(), "server.jar", 0)
	require.Equal(t, int64(progressStepBytes), unknown.next)

	tiny := newProgressWriter(context.Background(), "server.jar", 5)
	require.Equal(t, int64(5), tiny.next)
}
