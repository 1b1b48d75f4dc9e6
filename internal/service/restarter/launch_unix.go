//go:build unix

package restarter

import "syscall"

// detachedAttrs puts the child in its own session so it outlives the updater.
func detachedAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
