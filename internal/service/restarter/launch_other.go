//go:build !unix

package restarter

import "syscall"

func detachedAttrs() *syscall.SysProcAttr {
	return nil
}
