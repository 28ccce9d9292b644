//go:build windows

package priv

// Windows has no setuid/setgid model; please is a Unix tool by design
// (spec.md's privilege model assumes POSIX credentials throughout). The
// Windows build compiles so cmd/please's other platform-independent
// paths (listing, dry-run validation) still work, but any attempt at an
// actual privilege transition fails loudly rather than silently no-op'ing.
func SetPrivs(username string, target Identity) error { return ErrSetPrivsFailed }

func SetEPrivs(target Identity) error { return ErrSetPrivsFailed }

func EscPrivs() error { return ErrSetPrivsFailed }

func DropPrivs(original Identity) error { return ErrSetPrivsFailed }
