//go:build windows

package actions

import "syscall"

const detachedProcess = 0x00000008

// detachedProcAttr returns process attributes that keep launched programs alive
// after the agent exits and off the agent's console.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: detachedProcess | syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// shellProcAttr passes line to the shell exactly as given. Without CmdLine the
// runtime would quote it as a single argument, which cmd.exe does not unquote.
func shellProcAttr(shell []string, line string, detached bool) *syscall.SysProcAttr {
	attr := &syscall.SysProcAttr{CmdLine: shellCmdLine(shell, line)}
	if detached {
		attr.CreationFlags = detachedProcess | syscall.CREATE_NEW_PROCESS_GROUP
	}
	return attr
}
