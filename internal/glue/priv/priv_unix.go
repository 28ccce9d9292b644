//go:build !windows

package priv

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// SetPrivs performs a permanent transition to target: initgroups, then
// setgid, then setuid, in that order — mirroring
// original_source/src/lib.rs::set_privs exactly, including the ordering
// (groups before gid before uid, since dropping uid first would forfeit
// the privilege needed for the later calls).
func SetPrivs(username string, target Identity) error {
	if err := unix.Initgroups(username, int(target.GID)); err != nil {
		return ErrSetPrivsFailed
	}
	if err := unix.Setgid(int(target.GID)); err != nil {
		return ErrSetPrivsFailed
	}
	if err := unix.Setuid(int(target.UID)); err != nil {
		return ErrSetPrivsFailed
	}
	return nil
}

// SetEPrivs performs a temporary (effective-only) transition: setegid
// then seteuid, mirroring original_source/src/lib.rs::set_eprivs.
func SetEPrivs(target Identity) error {
	if err := unix.Setegid(int(target.GID)); err != nil {
		return ErrSetPrivsFailed
	}
	if err := unix.Seteuid(int(target.UID)); err != nil {
		return ErrSetPrivsFailed
	}
	return nil
}

// EscPrivs restores effective root, mirroring
// original_source/src/lib.rs::esc_privs.
func EscPrivs() error {
	return SetEPrivs(Identity{UID: 0, GID: 0})
}

// DropPrivs drops effective privileges back to the original invoker,
// mirroring original_source/src/lib.rs::drop_privs: escalate to root
// first so the subsequent setegid/seteuid to the original identity
// actually has the privilege needed to perform the drop.
func DropPrivs(original Identity) error {
	if err := EscPrivs(); err != nil {
		return err
	}
	return SetEPrivs(original)
}

// ParseUID is a small helper for callers that have a string uid (e.g.
// from os/user.Lookup) and need a numeric Identity.
func ParseUID(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}
