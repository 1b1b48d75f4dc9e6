// Package restarter stops a running Discord and launches it again.
//
// Process discovery goes through a ProcessManager: either pgrep/pkill or an
// in-process walk of the process table via go-ps.
package restarter
