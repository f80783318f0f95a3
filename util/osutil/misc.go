package osutil

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

//----------

// New session, so the child survives the window manager and gets no
// signals meant for it.
func SetupExecCmdSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &unix.SysProcAttr{Setsid: true}
}

//----------

func ShellScriptArgs(script string) []string {
	return []string{"/bin/sh", "-c", script}
}
