//go:build windows

package tokencache

import (
	"os"
	"time"
)

// accessTime has no portable equivalent via os.FileInfo on Windows
// without syscall.Win32FileAttributeData; the token cache is a
// Unix-oriented concern (please itself is setuid-based and Unix-only),
// so this falls back to mtime, which keeps the cache usable but means
// the atime-based session-extension behavior does not apply.
func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
