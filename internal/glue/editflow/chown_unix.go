//go:build !windows

package editflow

import "os"

func chown(path string, uid, gid int) error {
	return os.Chown(path, uid, gid)
}
