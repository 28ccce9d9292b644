// Package searchpath resolves a bare command name to a full path using a
// fixed, hardcoded search list — not the invoker's own $PATH, since that
// would let an invoker influence which binary a privileged please
// session actually executes. Grounded on
// original_source/src/lib.rs::search_path.
package searchpath

import (
	"os"
	"path/filepath"
	"strings"
)

// dirs is the fixed search list, matching search_path's hardcoded
// directory sequence exactly.
const dirs = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// Resolve returns the full path to binary. Absolute paths and paths
// starting with "./" are checked for existence directly; anything else
// is searched across the fixed directory list. Returns "" if not found.
func Resolve(binary string) string {
	if strings.HasPrefix(binary, "/") || strings.HasPrefix(binary, "./") {
		if _, err := os.Stat(binary); err != nil {
			return ""
		}
		return binary
	}

	for _, dir := range strings.Split(dirs, ":") {
		candidate := filepath.Join(dir, binary)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
