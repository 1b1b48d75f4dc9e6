// Package updater rebuilds BetterDiscord when Discord itself was updated.
//
// The Controller walks a fixed state machine: check tools, locate the
// Discord install, compare the installed version with the one recorded at
// the last rebuild and, when they differ, run the rebuild pipeline and record
// the new version. Run wires the controller to the real filesystem and
// processes from configuration.
package updater
