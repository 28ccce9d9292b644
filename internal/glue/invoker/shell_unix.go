//go:build !windows

package invoker

import (
	"bufio"
	"os"
	"os/user"
	"strings"
)

// lookupShell reads /etc/passwd for u's login shell; os/user does not
// expose this field on any platform. Falls back to /bin/sh if the
// lookup fails (a missing or truncated passwd entry should not prevent
// please from building a child environment).
func lookupShell(u *user.User) string {
	f, err := os.Open("/etc/passwd")
	if err != nil {
		return "/bin/sh"
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		if len(fields) == 7 && fields[0] == u.Username {
			return fields[6]
		}
	}
	return "/bin/sh"
}
