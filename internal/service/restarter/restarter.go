package restarter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/oshokin/bdupdater/internal/logger"
)

var (
	// ErrTerminateFailed is returned when the running application could not be stopped.
	ErrTerminateFailed = errors.New("stop running application")
	// ErrInstallNotFound is returned when there is nothing to relaunch.
	ErrInstallNotFound = errors.New("could not find application executable to restart")
)

// InstallFinder resolves the install directory and its executable.
type InstallFinder interface {
	Find(ctx context.Context) (string, bool)
	Executable(dir string) string
}

// Launcher starts a program without waiting for it.
type Launcher interface {
	Launch(ctx context.Context, executable string) error
}

// ExecLauncher starts the executable as a detached process.
type ExecLauncher struct{}

// Launch starts executable in its own session and releases it.
func (ExecLauncher) Launch(_ context.Context, executable string) error {
	// Not bound to ctx: Discord must keep running after the updater exits.
	cmd := exec.Command(executable) //nolint:gosec,noctx // Path comes from the locator.
	cmd.SysProcAttr = detachedAttrs()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", executable, err)
	}

	return cmd.Process.Release()
}

// Options configures a Restarter.
type Options struct {
	// AppName is the process name to look for and stop.
	AppName string
	// Delay is how long to wait after the termination request.
	Delay time.Duration
	// Processes finds and stops the running application.
	Processes ProcessManager
	// Finder resolves the executable to relaunch.
	Finder InstallFinder
	// Launcher starts the executable. Defaults to ExecLauncher.
	Launcher Launcher
}

// Restarter stops a running application, waits and launches it again.
type Restarter struct {
	appName   string
	delay     time.Duration
	processes ProcessManager
	finder    InstallFinder
	launcher  Launcher
}

// New creates a Restarter.
func New(opts *Options) *Restarter {
	launcher := opts.Launcher
	if launcher == nil {
		launcher = ExecLauncher{}
	}

	return &Restarter{
		appName:   opts.AppName,
		delay:     opts.Delay,
		processes: opts.Processes,
		finder:    opts.Finder,
		launcher:  launcher,
	}
}

// Restart stops the application if it runs and launches it again.
// A stop failure aborts before the relaunch.
func (r *Restarter) Restart(ctx context.Context) error {
	ctx = logger.WithName(ctx, "restart")

	logger.Infof(ctx, "Checking if %s is running", r.appName)

	running, err := r.processes.IsRunning(ctx, r.appName)
	if err != nil {
		logger.WarnKV(ctx, "Could not query running processes", "error", err)
	}

	if running {
		logger.Infof(ctx, "%s is running, restarting", r.appName)

		if err = r.processes.Terminate(ctx, r.appName); err != nil {
			logger.ErrorKV(ctx, "Error stopping application", "app", r.appName, "error", err)
			return fmt.Errorf("%w: %w", ErrTerminateFailed, err)
		}

		logger.Infof(ctx, "Waiting %s for %s to close", r.delay, r.appName)

		if err = sleep(ctx, r.delay); err != nil {
			return err
		}
	} else {
		logger.Infof(ctx, "%s is not running", r.appName)
	}

	dir, found := r.finder.Find(ctx)
	if !found {
		logger.Error(ctx, ErrInstallNotFound.Error())
		return ErrInstallNotFound
	}

	executable := r.finder.Executable(dir)
	logger.InfoKV(ctx, "Starting application", "executable", executable)

	if err = r.launcher.Launch(ctx, executable); err != nil {
		logger.ErrorKV(ctx, "Error starting application", "error", err)
		return err
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
