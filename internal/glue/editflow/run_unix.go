//go:build !windows

package editflow

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// RunEditor runs editorPath against editFile as the invoker (uid/gid),
// with stdio wired to the controlling terminal, matching pleaseedit.rs's
// forked child (which drops privileges before exec'ing the editor). Go
// cannot safely fork() a process with a running runtime, so the
// privilege drop is expressed as exec.Cmd's Credential instead of an
// explicit fork+setuid+exec sequence.
func RunEditor(editorPath, editFile string, invokerUID, invokerGID uint32, env []string) error {
	cmd := exec.Command(editorPath, editFile)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Credential: &syscall.Credential{Uid: invokerUID, Gid: invokerGID},
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", ErrEditorFailed, err)
	}
	return nil
}

// RunExitCmd executes an entry's exitcmd as the target identity, with
// output passed through to the terminal, aborting the edit if it exits
// non-zero. Mirrors pleaseedit.rs's cmd.output() call and its
// stdout/stderr passthrough plus exit-code check.
func RunExitCmd(argv []string, targetUID, targetGID uint32, env []string, stdout, stderr io.Writer) error {
	if len(argv) == 0 {
		return nil
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Credential: &syscall.Credential{Uid: targetUID, Gid: targetGID},
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", ErrExitCmdFailed, err)
	}
	return nil
}
