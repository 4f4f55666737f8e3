//go:build !windows

package actions

import "syscall"

// detachedProcAttr puts launched programs in their own process group so signals
// sent to the agent do not reach them.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// shellProcAttr needs nothing beyond detaching: POSIX shells take line as one argv entry.
func shellProcAttr(_ []string, _ string, detached bool) *syscall.SysProcAttr {
	if !detached {
		return nil
	}
	return detachedProcAttr()
}
