//go:build windows

package invoker

import "os/user"

// lookupShell has no /etc/passwd equivalent on Windows.
func lookupShell(u *user.User) string {
	return "cmd.exe"
}
