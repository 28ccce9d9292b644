//go:build windows

package cmd

import (
	"fmt"

	"github.com/please-project/please/internal/glue/priv"
)

func lookupTarget(target string) (priv.Identity, string, string, error) {
	return priv.Identity{}, "", "", fmt.Errorf("please is not supported on windows: %w", priv.ErrSetPrivsFailed)
}

func execTarget(username string, ident priv.Identity, args []string, env []string) error {
	return priv.ErrSetPrivsFailed
}

func execImage(path string, args []string, env []string) error {
	return priv.ErrSetPrivsFailed
}
