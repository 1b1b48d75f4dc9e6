package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/bdupdater/internal/config"
	"github.com/oshokin/bdupdater/internal/domain/discord"
	"github.com/oshokin/bdupdater/internal/service/bootstrap"
	"github.com/oshokin/bdupdater/internal/service/updater"
)

// sandbox is a fake system: a bin directory with stand-ins for git, npm,
// pnpm, pgrep and pkill, a Discord install and a settings file.
type sandbox struct {
	root       string
	bin        string
	install    string
	markerFile string
	pnpmLog    string
	launched   string
	configPath string
}

func newSandbox(t *testing.T, failingPnpmCommand string) *sandbox {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-ins need a POSIX shell")
	}

	root := t.TempDir()
	s := &sandbox{
		root:       root,
		bin:        filepath.Join(root, "bin"),
		install:    filepath.Join(root, "opt", "discord"),
		markerFile: filepath.Join(root, "discord_version"),
		pnpmLog:    filepath.Join(root, "pnpm.log"),
		launched:   filepath.Join(root, "launched"),
		configPath: filepath.Join(root, "bdupdater.yaml"),
	}

	writeScript(t, s.bin, "git", `mkdir -p "$3"`)
	writeScript(t, s.bin, "npm", `exit 0`)
	writeScript(t, s.bin, "pnpm", `echo "$*" >> "`+s.pnpmLog+`"
if [ "$1" = "`+failingPnpmCommand+`" ]; then echo "pnpm $1 failed" >&2; exit 1; fi`)
	writeScript(t, s.bin, "pgrep", `exit 1`)
	writeScript(t, s.bin, "pkill", `exit 0`)
	writeScript(t, s.install, "discord", `touch "`+s.launched+`"`)

	t.Setenv("PATH", s.bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	s.saveConfig(t, nil)

	return s
}

func (s *sandbox) saveConfig(t *testing.T, mutate func(*config.Config)) {
	t.Helper()

	cfg := &config.Config{
		InstallDirs:   []string{s.install},
		MarkerFile:    s.markerFile,
		WorkDir:       filepath.Join(s.root, "BetterDiscord"),
		RequiredTools: []string{"git", "npm", "pnpm"},
		RestartDelay:  10 * time.Millisecond,
		LogLevel:      "error",
	}

	if mutate != nil {
		mutate(cfg)
	}

	require.NoError(t, config.Save(s.configPath, cfg))
}

func (s *sandbox) setVersions(t *testing.T, installed, recorded string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(s.install, "version"), []byte(installed+"\n"), 0o600))

	if recorded != "" {
		require.NoError(t, os.WriteFile(s.markerFile, []byte(recorded), 0o600))
	}
}

func (s *sandbox) run(t *testing.T, stdin string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	err := updater.Run(context.Background(), &updater.Options{
		ConfigPath: s.configPath,
		Flavor:     discord.FlavorPTB,
		Stdin:      strings.NewReader(stdin),
		Stdout:     &out,
	})

	return out.String(), err
}

func (s *sandbox) marker(t *testing.T) string {
	t.Helper()

	raw, err := os.ReadFile(s.markerFile)
	require.NoError(t, err)

	return string(raw)
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755)) //nolint:gosec // Test stand-ins must be executable.
}

// TestUpdate_NewVersionRebuildsAndRestarts runs the whole pipeline and relaunches Discord.
func TestUpdate_NewVersionRebuildsAndRestarts(t *testing.T) {
	s := newSandbox(t, "")
	s.setVersions(t, "0.0.2", "0.0.1")

	out, err := s.run(t, "")
	require.NoError(t, err)
	require.Equal(t, "0.0.2", s.marker(t))

	log, err := os.ReadFile(s.pnpmLog)
	require.NoError(t, err)
	require.Equal(t, "install\nbuild\ninject ptb\n", string(log))
	require.Contains(t, out, "inject")

	require.Eventually(t, func() bool {
		_, statErr := os.Stat(s.launched)
		return statErr == nil
	}, 5*time.Second, 20*time.Millisecond)
}

// TestUpdate_BuildFailureStillRecordsVersion keeps the compatible marker behavior.
func TestUpdate_BuildFailureStillRecordsVersion(t *testing.T) {
	s := newSandbox(t, "build")
	s.setVersions(t, "0.0.2", "0.0.1")

	out, err := s.run(t, "")
	require.NoError(t, err)
	require.Equal(t, "0.0.2", s.marker(t))
	require.Contains(t, out, "failed")

	log, err := os.ReadFile(s.pnpmLog)
	require.NoError(t, err)
	require.NotContains(t, string(log), "inject")

	time.Sleep(100 * time.Millisecond)

	_, err = os.Stat(s.launched)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestUpdate_BuildFailureOnSuccessPolicy leaves the marker for a retry.
func TestUpdate_BuildFailureOnSuccessPolicy(t *testing.T) {
	s := newSandbox(t, "build")
	s.setVersions(t, "0.0.2", "0.0.1")
	s.saveConfig(t, func(cfg *config.Config) {
		cfg.MarkerPolicy = config.MarkerOnSuccess
	})

	_, err := s.run(t, "")
	require.NoError(t, err)
	require.Equal(t, "0.0.1", s.marker(t))
}

// TestUpdate_UpToDate does not touch the checkout or the marker.
func TestUpdate_UpToDate(t *testing.T) {
	s := newSandbox(t, "")
	s.setVersions(t, "0.0.1", "0.0.1")

	_, err := s.run(t, "")
	require.NoError(t, err)
	require.Equal(t, "0.0.1", s.marker(t))

	_, err = os.Stat(s.pnpmLog)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestUpdate_InstallNotFound exits successfully without writing a marker.
func TestUpdate_InstallNotFound(t *testing.T) {
	s := newSandbox(t, "")
	s.saveConfig(t, func(cfg *config.Config) {
		cfg.InstallDirs = []string{filepath.Join(s.root, "nowhere")}
	})

	_, err := s.run(t, "")
	require.NoError(t, err)

	_, err = os.Stat(s.markerFile)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestUpdate_DeclinedBootstrap is fatal.
func TestUpdate_DeclinedBootstrap(t *testing.T) {
	s := newSandbox(t, "")
	s.setVersions(t, "0.0.2", "0.0.1")
	s.saveConfig(t, func(cfg *config.Config) {
		cfg.RequiredTools = []string{"git", "bdupdater-missing-tool"}
	})

	out, err := s.run(t, "no\n")
	require.ErrorIs(t, err, bootstrap.ErrDeclined)
	require.Contains(t, out, "bdupdater-missing-tool")
	require.Equal(t, "0.0.1", s.marker(t))
}

// TestUpdate_MarkerWriteFailure is fatal after the rebuild.
func TestUpdate_MarkerWriteFailure(t *testing.T) {
	s := newSandbox(t, "")
	s.setVersions(t, "0.0.2", "")
	s.saveConfig(t, func(cfg *config.Config) {
		cfg.MarkerFile = filepath.Join(s.root, "missing-dir", "discord_version")
	})

	_, err := s.run(t, "")
	require.ErrorIs(t, err, updater.ErrMarkerWrite)
}
