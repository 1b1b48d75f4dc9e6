// Package config defines the updater settings and helpers to load, validate
// and save them in YAML format.
//
// Every path the workflow touches (marker file, checkout directory, install
// candidates) lives here so tests can point the whole run at a temporary
// directory.
package config
