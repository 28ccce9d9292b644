// Package priv handles the privilege transitions please/pleaseedit must
// perform around a permitted action: a permanent drop to the target
// identity before exec'ing the command, and a temporary escalate/drop
// pair around privileged operations like editing a root-owned file.
// Grounded on original_source/src/lib.rs's set_privs/set_eprivs/
// drop_privs/esc_privs.
package priv

import "fmt"

// ErrSetPrivsFailed is returned when a privilege transition syscall
// fails; please.rs's bad_priv_msg treats this as a fatal installation
// error (the binary isn't setuid-root), not a recoverable one.
var ErrSetPrivsFailed = fmt.Errorf("cannot set privileges: binary is not installed setuid-root")

// Identity is a resolved uid/gid pair, the Go analogue of nix::unistd::{Uid,Gid}.
type Identity struct {
	UID uint32
	GID uint32
}
