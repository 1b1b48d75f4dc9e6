package rebuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oshokin/bdupdater/internal/console"
	"github.com/oshokin/bdupdater/internal/domain/discord"
	"github.com/oshokin/bdupdater/internal/logger"
	"github.com/oshokin/bdupdater/internal/service/common"
)

// errCleanFailed is returned when the previous checkout could not be removed.
var errCleanFailed = errors.New("remove previous checkout")

// Restarter restarts the application after a successful injection.
type Restarter interface {
	Restart(ctx context.Context) error
}

// Options configures an Executor.
type Options struct {
	// WorkDir is wiped and cloned into on every rebuild.
	WorkDir string
	// RepositoryURL is the BetterDiscord git remote.
	RepositoryURL string
	// Runner executes the external steps.
	Runner common.Runner
	// Restarter is invoked only after the inject step succeeded.
	Restarter Restarter
	// Progress receives the spinner. Nil disables it.
	Progress io.Writer
}

// Executor runs the rebuild pipeline.
type Executor struct {
	workDir       string
	repositoryURL string
	runner        common.Runner
	restarter     Restarter
	progress      io.Writer
	removeAll     func(path string) error
}

// Report describes a rebuild attempt.
type Report struct {
	// Flavor is the injection target of this attempt.
	Flavor discord.Flavor
	// CleanErr is set when the old checkout could not be removed; no step ran then.
	CleanErr error
	// Steps has one entry per pipeline step, in order.
	Steps []StepReport
	// Failed points into Steps at the step that stopped the pipeline.
	Failed *StepReport
	// Restarted is true when the restarter was invoked.
	Restarted bool
	// RestartErr is what the restarter returned.
	RestartErr error
}

// Succeeded reports whether every step, injection included, succeeded.
func (r *Report) Succeeded() bool {
	return r != nil && r.CleanErr == nil && r.Failed == nil && len(r.Steps) > 0
}

// New creates an Executor.
func New(opts *Options) *Executor {
	return &Executor{
		workDir:       opts.WorkDir,
		repositoryURL: opts.RepositoryURL,
		runner:        opts.Runner,
		restarter:     opts.Restarter,
		progress:      opts.Progress,
		removeAll:     os.RemoveAll,
	}
}

// Steps returns the external commands of a rebuild for flavor, in execution order.
func (e *Executor) Steps(flavor discord.Flavor) []Step {
	return []Step{
		{
			Name:        "clone",
			Description: "Cloning BetterDiscord repository",
			Command:     common.Command{Name: "git", Args: []string{"clone", e.repositoryURL, e.workDir}},
		},
		{
			Name:        "install pnpm",
			Description: "Installing pnpm",
			Command:     common.Command{Name: "npm", Args: []string{"install", "-g", "pnpm"}, Dir: e.workDir},
		},
		{
			Name:        "install dependencies",
			Description: "Installing dependencies with pnpm",
			Command:     common.Command{Name: "pnpm", Args: []string{"install"}, Dir: e.workDir},
		},
		{
			Name:        "build",
			Description: "Building BetterDiscord",
			Command:     common.Command{Name: "pnpm", Args: []string{"build"}, Dir: e.workDir},
		},
		{
			Name:        "inject",
			Description: fmt.Sprintf("Injecting BetterDiscord for %s", flavor.String()),
			Command:     common.Command{Name: "pnpm", Args: []string{"inject", flavor.String()}, Dir: e.workDir},
		},
	}
}

// Rebuild runs the pipeline for flavor. Failures are logged and recorded in
// the report; they are never returned as errors.
func (e *Executor) Rebuild(ctx context.Context, flavor discord.Flavor) *Report {
	ctx = logger.WithName(ctx, "rebuild")
	report := &Report{Flavor: flavor}

	logger.Info(ctx, "Updating BetterDiscord")

	if err := e.clean(ctx); err != nil {
		logger.ErrorKV(ctx, "Error removing previous checkout", "dir", e.workDir, "error", err)
		report.CleanErr = err

		return report
	}

	report.Steps, report.Failed = runPipeline(ctx, e.runner, e.Steps(flavor), hooks{
		before: e.beforeStep,
		failed: logFailure,
	})
	if report.Failed != nil {
		return report
	}

	logger.Info(ctx, "BetterDiscord installed successfully")

	report.Restarted = true
	report.RestartErr = e.restarter.Restart(ctx)

	return report
}

func (e *Executor) clean(ctx context.Context) error {
	if _, err := os.Stat(e.workDir); err != nil {
		return nil //nolint:nilerr // Nothing to remove.
	}

	logger.InfoKV(ctx, "Removing existing directory", "dir", e.workDir)

	if err := e.removeAll(e.workDir); err != nil {
		return fmt.Errorf("%w: %w", errCleanFailed, err)
	}

	return nil
}

func (e *Executor) beforeStep(ctx context.Context, step Step) func() {
	logger.InfoKV(ctx, step.Description, "command", step.Command.String())

	if e.progress == nil {
		return nil
	}

	return console.StartSpinner(e.progress, step.Description+"...")
}

func logFailure(ctx context.Context, report *StepReport) {
	res := report.Result

	logger.ErrorKV(ctx, "Rebuild step failed",
		"step", report.Step.Name,
		"command", report.Step.Command.String(),
		"exit_code", res.ExitCode,
		"error", res.Err)
	logger.ErrorKV(ctx, "Output", "stdout", res.Stdout)
	logger.ErrorKV(ctx, "Errors", "stderr", res.Stderr)
}

// SummaryRows converts the report into rows for console.RenderSteps.
func (r *Report) SummaryRows() []console.StepRow {
	rows := make([]console.StepRow, 0, len(r.Steps))

	for i := range r.Steps {
		step := &r.Steps[i]

		status := console.StatusOK

		switch {
		case step.Skipped():
			status = console.StatusSkipped
		case !step.Succeeded():
			status = console.StatusFailed
		}

		rows = append(rows, console.StepRow{
			Name:     step.Step.Name,
			Command:  step.Step.Command.String(),
			Status:   status,
			Duration: step.Duration,
		})
	}

	return rows
}
