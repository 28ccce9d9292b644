//go:build !windows

package cmd

import (
	"fmt"

	"github.com/please-project/please/internal/glue/invoker"
	"github.com/please-project/please/internal/glue/priv"
)

func lookupTarget(target string) (priv.Identity, string, string, error) {
	uid, gid, home, shell, err := invoker.LookupIdentity(target)
	if err != nil {
		return priv.Identity{}, "", "", fmt.Errorf("could not lookup %s: %w", target, err)
	}
	return priv.Identity{UID: uid, GID: gid}, home, shell, nil
}

// execTarget drops privileges to (username, ident) and replaces the
// please process image with args[0], mirroring please.rs's final
// Command::new(...).exec() call (which never returns on success).
func execTarget(username string, ident priv.Identity, args []string, env []string) error {
	if err := priv.SetPrivs(username, ident); err != nil {
		return err
	}
	return execImage(args[0], args, env)
}
