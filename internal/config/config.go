package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/bdupdater/internal/logger"
)

// MarkerPolicy decides when the version marker is rewritten after a rebuild attempt.
type MarkerPolicy string

const (
	// MarkerAlways rewrites the marker after every rebuild attempt, even a failed one.
	MarkerAlways MarkerPolicy = "always"
	// MarkerOnSuccess rewrites the marker only after the whole pipeline succeeded.
	MarkerOnSuccess MarkerPolicy = "on_success"
)

// ProcessBackend selects how the restarter finds and stops Discord.
type ProcessBackend string

const (
	// BackendPgrep shells out to pgrep and pkill.
	BackendPgrep ProcessBackend = "pgrep"
	// BackendPS walks the process table in-process.
	BackendPS ProcessBackend = "ps"
)

// Config holds every tunable of an update run.
type Config struct {
	// AppName is the executable and process name of the target application.
	AppName string `yaml:"app_name"`
	// VersionFile is the file inside the install directory holding the installed version.
	VersionFile string `yaml:"version_file"`
	// InstallDirs are the candidate install directories, searched in order before PATH.
	InstallDirs []string `yaml:"install_dirs"`
	// MarkerFile persists the version seen at the last rebuild.
	MarkerFile string `yaml:"marker_file"`
	// WorkDir is where the BetterDiscord sources are cloned. It is wiped on every rebuild.
	WorkDir string `yaml:"work_dir"`
	// RepositoryURL is the BetterDiscord git remote.
	RepositoryURL string `yaml:"repository_url"`
	// RequiredTools must all be on PATH before a run may proceed.
	RequiredTools []string `yaml:"required_tools"`
	// RestartDelay is how long to wait for Discord to exit after pkill.
	RestartDelay time.Duration `yaml:"restart_delay"`
	// MarkerPolicy controls marker persistence after a failed rebuild.
	MarkerPolicy MarkerPolicy `yaml:"marker_policy"`
	// ProcessBackend selects pgrep/pkill or the in-process process table.
	ProcessBackend ProcessBackend `yaml:"process_backend"`
	// LogLevel is the minimum level printed to the console.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the settings file looked up when none is given.
	DefaultConfigFilename = "bdupdater.yaml"

	// DefaultAppName is the Discord executable name.
	DefaultAppName = "discord"

	// DefaultVersionFile is the version metadata file shipped with Discord.
	DefaultVersionFile = "version"

	// DefaultMarkerFile is where the last rebuilt version is stored.
	DefaultMarkerFile = "/var/tmp/discord_version"

	// DefaultWorkDir is the BetterDiscord checkout directory.
	DefaultWorkDir = "/tmp/BetterDiscord"

	// DefaultRepositoryURL is the upstream BetterDiscord repository.
	DefaultRepositoryURL = "https://github.com/BetterDiscord/BetterDiscord.git"

	// DefaultRestartDelay gives Discord time to shut down before it is relaunched.
	DefaultRestartDelay = 5 * time.Second

	// DefaultFilePermissions is used for the config and marker files.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidMarkerPolicy is returned for an unsupported marker_policy.
	errInvalidMarkerPolicy = errors.New("invalid marker policy")
	// errInvalidProcessBackend is returned for an unsupported process_backend.
	errInvalidProcessBackend = errors.New("invalid process backend")
	// errInvalidLogLevel is returned for an unparsable log_level.
	errInvalidLogLevel = errors.New("invalid log level")
)

// DefaultInstallDirs returns the places Discord is usually installed to on Linux.
func DefaultInstallDirs() []string {
	return []string{
		"/usr/lib/discord",
		"/opt/discord",
		"/usr/share/discord",
		"~/.local/share/Discord",
		"~/snap/discord/current/Discord",
	}
}

// DefaultRequiredTools returns the command-line tools a rebuild depends on.
func DefaultRequiredTools() []string {
	return []string{"git", "npm", "pnpm"}
}

// Default returns a validated configuration with built-in values.
func Default() *Config {
	cfg := new(Config)

	// Validate only fails on explicitly invalid values, an empty config is fine.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from path. A missing file at the default location
// is not an error: built-in defaults are returned instead.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigFilename {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path in YAML format.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for unset fields and rejects invalid ones.
//
//nolint:cyclop // A flat list of field checks.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}

	if cfg.VersionFile == "" {
		cfg.VersionFile = DefaultVersionFile
	}

	if len(cfg.InstallDirs) == 0 {
		cfg.InstallDirs = DefaultInstallDirs()
	}

	if cfg.MarkerFile == "" {
		cfg.MarkerFile = DefaultMarkerFile
	}

	if cfg.WorkDir == "" {
		cfg.WorkDir = DefaultWorkDir
	}

	if cfg.RepositoryURL == "" {
		cfg.RepositoryURL = DefaultRepositoryURL
	}

	if len(cfg.RequiredTools) == 0 {
		cfg.RequiredTools = DefaultRequiredTools()
	}

	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = DefaultRestartDelay
	}

	switch cfg.MarkerPolicy {
	case "":
		cfg.MarkerPolicy = MarkerAlways
	case MarkerAlways, MarkerOnSuccess:
	default:
		return fmt.Errorf("%w: %q", errInvalidMarkerPolicy, cfg.MarkerPolicy)
	}

	switch cfg.ProcessBackend {
	case "":
		cfg.ProcessBackend = BackendPgrep
	case BackendPgrep, BackendPS:
	default:
		return fmt.Errorf("%w: %q", errInvalidProcessBackend, cfg.ProcessBackend)
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.LogLevel)
	}

	if _, err := url.Parse(cfg.RepositoryURL); err != nil {
		return fmt.Errorf("invalid repository url: %w", err)
	}

	return nil
}

// ExpandedInstallDirs returns InstallDirs with a leading "~" replaced by home.
// Entries that need a home directory are dropped when home is empty.
func (c *Config) ExpandedInstallDirs(home string) []string {
	dirs := make([]string, 0, len(c.InstallDirs))

	for _, dir := range c.InstallDirs {
		switch {
		case dir == "~":
			dir = home
		case strings.HasPrefix(dir, "~/"):
			if home == "" {
				continue
			}

			dir = filepath.Join(home, dir[2:])
		}

		if dir == "" {
			continue
		}

		dirs = append(dirs, dir)
	}

	return dirs
}
