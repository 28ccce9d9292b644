//go:build !windows

package cmd

import (
	"fmt"
	"syscall"

	"github.com/please-project/please/internal/glue/searchpath"
)

// execImage replaces the current process image with path, falling back
// to `sh args...` if the exec fails, mirroring please.rs's two-call
// fallback (`Command::new(&ro.new_args[0]).exec(); Command::new("/bin/sh").args(ro.new_args).exec();`).
// The shell is resolved through searchpath's fixed directory list, and
// is /bin/sh only when no sh is found there.
func execImage(path string, args []string, env []string) error {
	if err := syscall.Exec(path, args, env); err != nil {
		shell := searchpath.Resolve("sh")
		if shell == "" {
			shell = "/bin/sh"
		}
		shellArgs := append([]string{shell}, args...)
		if shErr := syscall.Exec(shell, shellArgs, env); shErr != nil {
			return fmt.Errorf("exec %s: %w", path, err)
		}
	}
	return nil
}
