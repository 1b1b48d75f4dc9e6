package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/bdupdater/internal/config"
	"github.com/oshokin/bdupdater/internal/domain/discord"
	"github.com/oshokin/bdupdater/internal/logger"
	"github.com/oshokin/bdupdater/internal/service/updater"
	"github.com/oshokin/bdupdater/internal/version"
)

// newRootCmd builds the bdupdater command tree.
func newRootCmd() *cobra.Command {
	var (
		// configPath to the configuration YAML file.
		configPath string
		// logLevel overrides the level from the configuration file.
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:           "bdupdater",
		Short:         "Keep BetterDiscord injected across Discord updates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newUpdateCmd(&configPath, &logLevel))
	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// newUpdateCmd builds the `update` subcommand.
func newUpdateCmd(configPath, logLevel *string) *cobra.Command {
	var (
		// flavor selects the Discord channel to inject into.
		flavor = discord.FlavorCanary
		// assumeYes skips the consent prompt for missing tools.
		assumeYes bool
	)

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Rebuild and reinject BetterDiscord if Discord was updated",
		Long: `Checks that git, npm and pnpm are installed, finds the Discord installation and
compares its version with the one recorded at the last rebuild.

When the versions differ, BetterDiscord is cloned, built and injected into the
selected Discord channel, Discord is restarted and the new version is recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			options := &updater.Options{
				ConfigPath: *configPath,
				Flavor:     flavor,
				AssumeYes:  assumeYes,
				LogLevel:   *logLevel,
				Stdin:      cmd.InOrStdin(),
				Stdout:     cmd.OutOrStdout(),
			}

			return updater.Run(ctx, options)
		},
	}

	updateCmd.Flags().VarP(&flavor, "type", "t", "injection type (canary or ptb)")
	updateCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "install missing tools without asking")

	return updateCmd
}

// Execute runs the bdupdater CLI and exits with non-zero status on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
