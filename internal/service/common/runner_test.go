//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
}

// TestExecRunner_CapturesOutput checks stdout and stderr are captured separately.
func TestExecRunner_CapturesOutput(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res := new(ExecRunner).Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	})

	require.True(t, res.OK())
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "out\n", res.Stdout)
	require.Equal(t, "err\n", res.Stderr)
}

// TestExecRunner_NonZeroExit tags the result with ErrNonZeroExit and the exit code.
func TestExecRunner_NonZeroExit(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res := new(ExecRunner).Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo broken >&2; exit 3"},
	})

	require.False(t, res.OK())
	require.ErrorIs(t, res.Err, ErrNonZeroExit)
	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, "broken\n", res.Stderr)
}

// TestExecRunner_MissingProgram reports a start failure with exit code -1.
func TestExecRunner_MissingProgram(t *testing.T) {
	t.Parallel()

	res := new(ExecRunner).Run(context.Background(), Command{Name: "bdupdater-no-such-program"})

	require.False(t, res.OK())
	require.Equal(t, -1, res.ExitCode)
	require.NotErrorIs(t, res.Err, ErrNonZeroExit)
}

// TestExecRunner_InteractiveMirrorsOutput copies output to the attached writer as well.
func TestExecRunner_InteractiveMirrorsOutput(t *testing.T) {
	t.Parallel()
	requireShell(t)

	var terminal bytes.Buffer

	runner := &ExecRunner{Stdout: &terminal}
	res := runner.Run(context.Background(), Command{
		Name:        "sh",
		Args:        []string{"-c", "pwd"},
		Dir:         t.TempDir(),
		Interactive: true,
	})

	require.True(t, res.OK())
	require.Equal(t, res.Stdout, terminal.String())
}

// TestCommandString joins the program and its arguments.
func TestCommandString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "pnpm inject canary", Command{Name: "pnpm", Args: []string{"inject", "canary"}}.String())
}
