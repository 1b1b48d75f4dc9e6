// Package version exposes build metadata of bdupdater.
//
// Version, Commit and BuildTime are injected with -ldflags; when they are not,
// Full falls back to what the Go toolchain embedded in the binary.
package version
