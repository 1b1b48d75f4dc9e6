package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oshokin/bdupdater/internal/config"
	"github.com/oshokin/bdupdater/internal/console"
	"github.com/oshokin/bdupdater/internal/domain/discord"
	"github.com/oshokin/bdupdater/internal/logger"
	"github.com/oshokin/bdupdater/internal/repository/marker"
	"github.com/oshokin/bdupdater/internal/service/bootstrap"
	"github.com/oshokin/bdupdater/internal/service/common"
	"github.com/oshokin/bdupdater/internal/service/locator"
	"github.com/oshokin/bdupdater/internal/service/rebuild"
	"github.com/oshokin/bdupdater/internal/service/restarter"
)

// errInvalidLogLevel is returned for an unparsable --log-level.
var errInvalidLogLevel = errors.New("invalid log level")

// Options are inputs accepted by the updater entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Flavor is the Discord channel BetterDiscord is injected into.
	Flavor discord.Flavor
	// AssumeYes installs missing tools without asking.
	AssumeYes bool
	// LogLevel overrides the level from the settings file when set.
	LogLevel string
	// Stdin and Stdout are the operator terminal. Nil means os.Stdin and os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// Run loads configuration, wires the workflow to the real system and runs it once.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "update")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = applyLogLevel(cfg, opts.LogLevel); err != nil {
		return err
	}

	stdin, stdout := opts.Stdin, opts.Stdout
	if stdin == nil {
		stdin = os.Stdin
	}

	if stdout == nil {
		stdout = os.Stdout
	}

	report, err := newController(cfg, opts, stdin, stdout).Run(ctx, opts.Flavor)
	if report != nil && report.Rebuild != nil && len(report.Rebuild.Steps) > 0 {
		console.RenderSteps(stdout, report.Rebuild.SummaryRows())
	}

	if err != nil {
		logger.ErrorKV(ctx, "Update failed", "error", err)
		return err
	}

	logger.Info(ctx, "Update completed")

	return nil
}

// newController builds the production object graph from cfg.
func newController(cfg *config.Config, opts *Options, stdin io.Reader, stdout io.Writer) *Controller {
	runner := &common.ExecRunner{Stdin: stdin, Stdout: stdout, Stderr: os.Stderr}

	// Home-relative candidates are dropped when there is no home directory.
	home, _ := os.UserHomeDir()
	loc := locator.New(cfg.ExpandedInstallDirs(home), os.Getenv("PATH"), cfg.AppName)

	var processes restarter.ProcessManager = restarter.NewPgrepManager(runner)
	if cfg.ProcessBackend == config.BackendPS {
		processes = restarter.NewPSManager()
	}

	var confirmer bootstrap.Confirmer = bootstrap.NewPromptConfirmer(stdin, stdout)
	if opts.AssumeYes {
		confirmer = bootstrap.StaticConfirmer(true)
	}

	var progress io.Writer
	if console.IsTerminal(stdout) {
		progress = stdout
	}

	executor := rebuild.New(&rebuild.Options{
		WorkDir:       cfg.WorkDir,
		RepositoryURL: cfg.RepositoryURL,
		Runner:        runner,
		Progress:      progress,
		Restarter: restarter.New(&restarter.Options{
			AppName:   cfg.AppName,
			Delay:     cfg.RestartDelay,
			Processes: processes,
			Finder:    loc,
		}),
	})

	return NewController(Dependencies{
		Tools: bootstrap.New(&bootstrap.Options{
			Tools:     cfg.RequiredTools,
			Confirmer: confirmer,
			Runner:    runner,
			Out:       stdout,
		}),
		Locator: loc,
		ReadVersion: func(installDir string) string {
			return locator.ReadVersion(installDir, cfg.VersionFile)
		},
		Markers:      marker.NewFileRepository(cfg.MarkerFile),
		Rebuilder:    executor,
		MarkerPolicy: cfg.MarkerPolicy,
	})
}

func applyLogLevel(cfg *config.Config, override string) error {
	raw := cfg.LogLevel
	if override != "" {
		raw = override
	}

	level, ok := logger.ParseLogLevel(raw)
	if !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, raw)
	}

	logger.SetLevel(level)

	return nil
}
