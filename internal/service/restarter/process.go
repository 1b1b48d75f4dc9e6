package restarter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/bdupdater/internal/service/common"
)

// ProcessManager finds and stops processes by name.
type ProcessManager interface {
	IsRunning(ctx context.Context, name string) (bool, error)
	Terminate(ctx context.Context, name string) error
}

// errNoMatchingProcess is returned when nothing matched the requested name.
var errNoMatchingProcess = errors.New("no matching process")

// PgrepManager shells out to pgrep and pkill.
type PgrepManager struct {
	runner common.Runner
}

// NewPgrepManager creates a manager running pgrep/pkill through runner.
func NewPgrepManager(runner common.Runner) *PgrepManager {
	return &PgrepManager{runner: runner}
}

// IsRunning runs `pgrep <name>`. Exit status 1 means nothing matched.
func (m *PgrepManager) IsRunning(ctx context.Context, name string) (bool, error) {
	res := m.runner.Run(ctx, common.Command{Name: "pgrep", Args: []string{name}})

	switch {
	case res.OK():
		return true, nil
	case errors.Is(res.Err, common.ErrNonZeroExit):
		return false, nil
	default:
		return false, res.Err
	}
}

// Terminate runs `pkill <name>`.
func (m *PgrepManager) Terminate(ctx context.Context, name string) error {
	res := m.runner.Run(ctx, common.Command{Name: "pkill", Args: []string{name}})
	if !res.OK() {
		return fmt.Errorf("%w: %s", res.Err, strings.TrimSpace(res.Stderr))
	}

	return nil
}

// PSManager walks the process table with go-ps.
// A process matches when its executable name contains the requested name, as pgrep does.
type PSManager struct {
	// selfPID is skipped so the updater never signals itself.
	selfPID int
}

// NewPSManager creates a process-table manager.
func NewPSManager() *PSManager {
	return &PSManager{selfPID: os.Getpid()}
}

// IsRunning reports whether any process matches name.
func (m *PSManager) IsRunning(_ context.Context, name string) (bool, error) {
	pids, err := m.matching(name)
	if err != nil {
		return false, err
	}

	return len(pids) > 0, nil
}

// Terminate sends SIGTERM to every matching process.
func (m *PSManager) Terminate(_ context.Context, name string) error {
	pids, err := m.matching(name)
	if err != nil {
		return err
	}

	if len(pids) == 0 {
		return fmt.Errorf("%s: %w", name, errNoMatchingProcess)
	}

	for _, pid := range pids {
		var process *os.Process

		process, err = os.FindProcess(pid)
		if err != nil {
			return err
		}

		if err = process.Signal(syscall.SIGTERM); err != nil {
			return fmt.Errorf("signal pid %d: %w", pid, err)
		}
	}

	return nil
}

func (m *PSManager) matching(name string) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var pids []int

	for _, process := range processList {
		if process.Pid() == m.selfPID {
			continue
		}

		if strings.Contains(process.Executable(), name) {
			pids = append(pids, process.Pid())
		}
	}

	return pids, nil
}
