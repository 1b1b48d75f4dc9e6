// Package locator finds the Discord install directory and reads the version
// shipped with it.
package locator
