//go:build windows

package editflow

// chown is a no-op on Windows, which has no POSIX uid/gid ownership
// model; please is inherently a Unix/setuid tool (see internal/glue/priv).
func chown(path string, uid, gid int) error {
	return nil
}
