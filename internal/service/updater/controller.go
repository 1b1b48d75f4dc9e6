package updater

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/bdupdater/internal/config"
	"github.com/oshokin/bdupdater/internal/domain/discord"
	"github.com/oshokin/bdupdater/internal/logger"
	"github.com/oshokin/bdupdater/internal/repository/marker"
	"github.com/oshokin/bdupdater/internal/service/rebuild"
)

var (
	// ErrMarkerRead is returned when an existing marker could not be read.
	ErrMarkerRead = errors.New("read previous version")
	// ErrMarkerWrite is returned when the new version could not be recorded.
	ErrMarkerWrite = errors.New("write previous version")
)

// ToolChecker makes sure external tools are available.
type ToolChecker interface {
	Ensure(ctx context.Context) error
}

// InstallLocator finds the Discord install directory.
type InstallLocator interface {
	Find(ctx context.Context) (string, bool)
}

// VersionReader returns the version installed in a directory.
type VersionReader func(installDir string) string

// Rebuilder runs the rebuild pipeline.
type Rebuilder interface {
	Rebuild(ctx context.Context, flavor discord.Flavor) *rebuild.Report
}

// Dependencies are the collaborators of a Controller.
type Dependencies struct {
	Tools       ToolChecker
	Locator     InstallLocator
	ReadVersion VersionReader
	Markers     marker.Repository
	Rebuilder   Rebuilder
	// MarkerPolicy decides whether a failed rebuild still records the version.
	MarkerPolicy config.MarkerPolicy
}

// Controller runs the update workflow.
type Controller struct {
	deps Dependencies
}

// Report summarises a workflow run.
type Report struct {
	// Visited lists the states in the order they were entered.
	Visited []discord.State
	// InstallDir is empty when Discord was not found.
	InstallDir string
	// Current is the installed version.
	Current string
	// Previous is the version recorded at the last rebuild, "none" if never.
	Previous string
	// Rebuild is nil unless a rebuild was attempted.
	Rebuild *rebuild.Report
	// MarkerUpdated is true when Current was written to the marker.
	MarkerUpdated bool
}

// Reached reports whether the run entered state.
func (r *Report) Reached(state discord.State) bool {
	for _, s := range r.Visited {
		if s == state {
			return true
		}
	}

	return false
}

// NewController creates a Controller.
func NewController(deps Dependencies) *Controller {
	if deps.MarkerPolicy == "" {
		deps.MarkerPolicy = config.MarkerAlways
	}

	return &Controller{deps: deps}
}

// Run executes one pass of the workflow for flavor.
// Only a declined or failed tool bootstrap and marker I/O errors are returned;
// every other outcome, a failed rebuild included, is reported through Report.
func (c *Controller) Run(ctx context.Context, flavor discord.Flavor) (*Report, error) {
	report := new(Report)

	report.enter(discord.StateCheckingTools)

	if err := c.deps.Tools.Ensure(ctx); err != nil {
		return report, err
	}

	report.enter(discord.StateLocatingInstall)

	installDir, found := c.deps.Locator.Find(ctx)
	if !found {
		logger.Warn(ctx, "Discord installation not found")
		report.enter(discord.StateDone)

		return report, nil
	}

	report.InstallDir = installDir
	logger.InfoKV(ctx, "Discord installation found", "dir", installDir)

	report.enter(discord.StateReadingVersions)

	report.Current = c.deps.ReadVersion(installDir)

	previous, err := c.readPrevious(ctx)
	if err != nil {
		return report, err
	}

	report.Previous = previous

	if report.Current == report.Previous {
		report.enter(discord.StateUpToDate)
		logger.InfoKV(ctx, "No update required. BetterDiscord is up-to-date", "version", report.Current)
		report.enter(discord.StateDone)

		return report, nil
	}

	report.enter(discord.StateRebuilding)
	logger.InfoKV(ctx, "New version detected. Updating BetterDiscord",
		"current", report.Current, "previous", report.Previous, "type", flavor.String())

	report.Rebuild = c.deps.Rebuilder.Rebuild(ctx, flavor)

	if err = c.persist(ctx, report); err != nil {
		return report, err
	}

	report.enter(discord.StateDone)

	return report, nil
}

func (c *Controller) readPrevious(ctx context.Context) (string, error) {
	previous, err := c.deps.Markers.Load(ctx)
	if err == nil {
		return previous, nil
	}

	if errors.Is(err, marker.ErrNotFound) {
		return discord.NoVersion, nil
	}

	return "", fmt.Errorf("%w: %w", ErrMarkerRead, err)
}

func (c *Controller) persist(ctx context.Context, report *Report) error {
	succeeded := report.Rebuild.Succeeded()

	if !succeeded {
		if c.deps.MarkerPolicy == config.MarkerOnSuccess {
			logger.WarnKV(ctx, "Rebuild failed, keeping the previous version marker so the next run retries",
				"previous", report.Previous)

			return nil
		}

		logger.WarnKV(ctx, "Rebuild failed but the version marker is updated anyway; "+
			"the next run will not retry until Discord updates again",
			"version", report.Current)
	}

	if err := c.deps.Markers.Save(ctx, report.Current); err != nil {
		logger.ErrorKV(ctx, "Error writing version file", "error", err)
		return fmt.Errorf("%w: %w", ErrMarkerWrite, err)
	}

	report.MarkerUpdated = true

	return nil
}

func (r *Report) enter(state discord.State) {
	r.Visited = append(r.Visited, state)
}
