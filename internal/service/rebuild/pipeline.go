package rebuild

import (
	"context"
	"time"

	"github.com/oshokin/bdupdater/internal/service/common"
)

// Step is one named external command of the pipeline.
type Step struct {
	// Name is a short label used in logs and the summary.
	Name string
	// Command is the process to run.
	Command common.Command
	// Description is logged before the step starts.
	Description string
}

// StepReport is what happened to a Step.
type StepReport struct {
	Step Step
	// Result is nil for steps that never ran.
	Result   *common.Result
	Duration time.Duration
}

// Skipped reports whether the step never ran.
func (s *StepReport) Skipped() bool {
	return s.Result == nil
}

// Succeeded reports whether the step ran and exited with status 0.
func (s *StepReport) Succeeded() bool {
	return s.Result.OK()
}

// hooks observe the pipeline as it runs.
type hooks struct {
	before func(ctx context.Context, step Step) (after func())
	failed func(ctx context.Context, report *StepReport)
}

// runPipeline executes steps in order and stops at the first failure.
// Every step gets a report; the ones after a failure are marked skipped.
func runPipeline(ctx context.Context, runner common.Runner, steps []Step, h hooks) ([]StepReport, *StepReport) {
	reports := make([]StepReport, len(steps))
	for i := range steps {
		reports[i].Step = steps[i]
	}

	for i := range reports {
		report := &reports[i]

		var after func()
		if h.before != nil {
			after = h.before(ctx, report.Step)
		}

		started := time.Now()
		report.Result = runner.Run(ctx, report.Step.Command)
		report.Duration = time.Since(started)

		if after != nil {
			after()
		}

		if !report.Succeeded() {
			if h.failed != nil {
				h.failed(ctx, report)
			}

			return reports, report
		}
	}

	return reports, nil
}
