// Package invoker gathers the OS facts please/pleaseedit need to build a
// policy.Request: the calling user's identity and group memberships, the
// controlling tty, the parent pid (used as the token cache's session
// key), the hostname, and the current working directory. Grounded on
// original_source/src/bin/please.rs::main's preamble, which resolves
// the same facts via the `users`/`nix` crates.
package invoker

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// Facts holds everything gathered about the invoking process and user.
type Facts struct {
	Name     string
	UID      uint32
	GID      uint32
	Groups   map[string]uint32
	Hostname string
	TTY      string
	PPID     int
	Cwd      string
	HomeDir  string
	Shell    string
}

// Gather resolves the current process's invoker facts.
func Gather() (Facts, error) {
	u, err := user.Current()
	if err != nil {
		return Facts{}, fmt.Errorf("resolve current user: %w", err)
	}

	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return Facts{}, fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return Facts{}, fmt.Errorf("parse gid %q: %w", u.Gid, err)
	}

	groups, err := resolveGroups(u)
	if err != nil {
		return Facts{}, fmt.Errorf("resolve group memberships: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return Facts{}, fmt.Errorf("resolve hostname: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return Facts{}, fmt.Errorf("resolve working directory: %w", err)
	}

	return Facts{
		Name:     u.Username,
		UID:      uint32(uid),
		GID:      uint32(gid),
		Groups:   groups,
		Hostname: hostname,
		TTY:      ttyName(),
		PPID:     os.Getppid(),
		Cwd:      cwd,
		HomeDir:  u.HomeDir,
		Shell:    lookupShell(u),
	}, nil
}

// LookupIdentity resolves username's uid/gid, home directory, and login
// shell, used to build the target identity please transitions into.
func LookupIdentity(username string) (uid, gid uint32, homeDir, shell string, err error) {
	u, err := user.Lookup(username)
	if err != nil {
		return 0, 0, "", "", fmt.Errorf("lookup user %q: %w", username, err)
	}

	uidN, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, 0, "", "", fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}
	gidN, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return 0, 0, "", "", fmt.Errorf("parse gid %q: %w", u.Gid, err)
	}

	return uint32(uidN), uint32(gidN), u.HomeDir, lookupShell(u), nil
}

func resolveGroups(u *user.User) (map[string]uint32, error) {
	gids, err := u.GroupIds()
	if err != nil {
		return nil, err
	}

	out := make(map[string]uint32, len(gids))
	for _, gidStr := range gids {
		g, err := user.LookupGroupId(gidStr)
		if err != nil {
			continue
		}
		n, err := strconv.ParseUint(gidStr, 10, 32)
		if err != nil {
			continue
		}
		out[g.Name] = uint32(n)
	}
	return out, nil
}
