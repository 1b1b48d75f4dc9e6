// Package rebuild clones BetterDiscord, builds it, injects it into Discord
// and asks for a restart.
//
// Steps run strictly in order. The first failing step stops the pipeline:
// later steps and the restart are skipped and nothing is rolled back.
package rebuild
