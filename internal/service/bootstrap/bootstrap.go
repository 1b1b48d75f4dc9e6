package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/oshokin/bdupdater/internal/console"
	"github.com/oshokin/bdupdater/internal/logger"
	"github.com/oshokin/bdupdater/internal/service/common"
)

var (
	// ErrDeclined is returned when the operator refused to install missing tools.
	ErrDeclined = errors.New("installation of required tools declined")
	// ErrInstallFailed is returned when the package manager failed.
	ErrInstallFailed = errors.New("failed to install dependencies")
)

// consentQuestion is asked before anything is installed.
const consentQuestion = "Do you want to install missing dependencies?"

// InstallCommands returns the apt-get sequence that installs the toolchain.
func InstallCommands() []common.Command {
	return []common.Command{
		{Name: "sudo", Args: []string{"apt-get", "update"}, Interactive: true},
		{Name: "sudo", Args: []string{"apt-get", "install", "-y", "git", "npm"}, Interactive: true},
		{Name: "sudo", Args: []string{"npm", "install", "-g", "pnpm"}, Interactive: true},
	}
}

// Options configures a Bootstrapper.
type Options struct {
	// Tools must all resolve on PATH.
	Tools []string
	// LookPath resolves a tool. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
	// Confirmer decides whether missing tools are installed.
	Confirmer Confirmer
	// Runner executes the install commands.
	Runner common.Runner
	// Out receives operator notices.
	Out io.Writer
}

// Bootstrapper checks for and installs required tools.
type Bootstrapper struct {
	tools     []string
	lookPath  func(file string) (string, error)
	confirmer Confirmer
	runner    common.Runner
	out       io.Writer
}

// New creates a Bootstrapper.
func New(opts *Options) *Bootstrapper {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	return &Bootstrapper{
		tools:     opts.Tools,
		lookPath:  lookPath,
		confirmer: opts.Confirmer,
		runner:    opts.Runner,
		out:       out,
	}
}

// Missing returns the tools that are not on PATH, in configured order.
func (b *Bootstrapper) Missing() []string {
	var missing []string

	for _, tool := range b.tools {
		if _, err := b.lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}

	return missing
}

// Ensure returns nil when every tool is present or was installed.
// It returns ErrDeclined or ErrInstallFailed otherwise; both are fatal for a run.
func (b *Bootstrapper) Ensure(ctx context.Context) error {
	ctx = logger.WithName(ctx, "bootstrap")

	missing := b.Missing()
	if len(missing) == 0 {
		logger.Info(ctx, "All required tools are already installed")
		return nil
	}

	console.MissingTools(b.out, missing)
	console.Warning(b.out, "Some required tools are missing. We need to install them.")

	agreed, err := b.confirmer.Confirm(ctx, consentQuestion)
	if err != nil {
		return err
	}

	if !agreed {
		console.Warning(b.out, "Exiting. Please install the required tools manually.")
		return ErrDeclined
	}

	for _, cmd := range InstallCommands() {
		logger.InfoKV(ctx, "Installing required packages", "command", cmd.String())

		res := b.runner.Run(ctx, cmd)
		if !res.OK() {
			logger.ErrorKV(ctx, "Failed to install dependencies",
				"command", cmd.String(), "stdout", res.Stdout, "stderr", res.Stderr)

			return fmt.Errorf("%w: %w", ErrInstallFailed, res.Err)
		}
	}

	console.Success(b.out, "Dependencies installed successfully.")

	return nil
}
