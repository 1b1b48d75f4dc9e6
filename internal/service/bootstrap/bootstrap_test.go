package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/bdupdater/internal/service/common"
)

func lookPathWithout(missing ...string) func(string) (string, error) {
	return func(file string) (string, error) {
		for _, m := range missing {
			if m == file {
				return "", exec.ErrNotFound
			}
		}

		return "/usr/bin/" + file, nil
	}
}

type recordingRunner struct {
	failOn string
	ran    []string
}

func (r *recordingRunner) Run(_ context.Context, cmd common.Command) *common.Result {
	r.ran = append(r.ran, cmd.String())

	if cmd.String() == r.failOn {
		return &common.Result{Command: cmd, ExitCode: 100, Err: common.ErrNonZeroExit}
	}

	return &common.Result{Command: cmd}
}

type panicConfirmer struct{}

func (panicConfirmer) Confirm(context.Context, string) (bool, error) {
	panic("must not ask when nothing is missing")
}

// TestEnsure_NothingMissing does not prompt or install.
func TestEnsure_NothingMissing(t *testing.T) {
	t.Parallel()

	runner := new(recordingRunner)
	b := New(&Options{
		Tools:     []string{"git", "npm", "pnpm"},
		LookPath:  lookPathWithout(),
		Confirmer: panicConfirmer{},
		Runner:    runner,
	})

	require.NoError(t, b.Ensure(context.Background()))
	require.Empty(t, runner.ran)
}

// TestEnsure_Declined is fatal and installs nothing.
func TestEnsure_Declined(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	runner := new(recordingRunner)
	b := New(&Options{
		Tools:     []string{"git", "npm", "pnpm"},
		LookPath:  lookPathWithout("pnpm"),
		Confirmer: StaticConfirmer(false),
		Runner:    runner,
		Out:       &out,
	})

	require.Equal(t, []string{"pnpm"}, b.Missing())
	require.ErrorIs(t, b.Ensure(context.Background()), ErrDeclined)
	require.Empty(t, runner.ran)
	require.Contains(t, out.String(), "pnpm")
}

// TestEnsure_AcceptedRunsAptSequence installs with the fixed command sequence.
func TestEnsure_AcceptedRunsAptSequence(t *testing.T) {
	t.Parallel()

	runner := new(recordingRunner)
	b := New(&Options{
		Tools:     []string{"git", "npm", "pnpm"},
		LookPath:  lookPathWithout("git", "npm"),
		Confirmer: StaticConfirmer(true),
		Runner:    runner,
	})

	require.NoError(t, b.Ensure(context.Background()))
	require.Equal(t, []string{
		"sudo apt-get update",
		"sudo apt-get install -y git npm",
		"sudo npm install -g pnpm",
	}, runner.ran)
}

// TestEnsure_InstallFailure stops at the failing command.
func TestEnsure_InstallFailure(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{failOn: "sudo apt-get update"}
	b := New(&Options{
		Tools:     []string{"git"},
		LookPath:  lookPathWithout("git"),
		Confirmer: StaticConfirmer(true),
		Runner:    runner,
	})

	require.ErrorIs(t, b.Ensure(context.Background()), ErrInstallFailed)
	require.Len(t, runner.ran, 1)
}

type erroringConfirmer struct{}

func (erroringConfirmer) Confirm(context.Context, string) (bool, error) {
	return false, errors.New("interrupt")
}

// TestEnsure_ConfirmError propagates prompt failures.
func TestEnsure_ConfirmError(t *testing.T) {
	t.Parallel()

	b := New(&Options{
		Tools:     []string{"git"},
		LookPath:  lookPathWithout("git"),
		Confirmer: erroringConfirmer{},
		Runner:    new(recordingRunner),
	})

	err := b.Ensure(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDeclined)
}

// TestPromptConfirmer_ReadsLine accepts yes/y and rejects everything else off-terminal.
func TestPromptConfirmer_ReadsLine(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"yes\n":  true,
		"Y\n":    true,
		" y ":    true,
		"no\n":   false,
		"sure\n": false,
		"":       false,
	}

	for input, want := range cases {
		var out bytes.Buffer

		got, err := NewPromptConfirmer(strings.NewReader(input), &out).Confirm(context.Background(), consentQuestion)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
		require.Contains(t, out.String(), "(yes/no)")
	}
}
