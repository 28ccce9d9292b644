// Package tokencache implements the password-challenge freshness cache:
// a touch file per (user, tty, parent pid) whose mtime/atime encode when
// the invoker last passed a password challenge, so a rapid sequence of
// please invocations from the same shell session doesn't re-prompt.
// Grounded on original_source/src/lib.rs's token_dir/token_path/
// create_token_dir/boot_secs/valid_token/update_token/remove_token.
package tokencache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFreshSeconds is the freshness window, matching the original's
// hardcoded 600-second (10 minute) token lifetime.
const DefaultFreshSeconds = 600

// Cache manages token touch files under dir.
type Cache struct {
	dir          string
	freshSeconds int
}

// New returns a Cache rooted at dir (default
// /var/run/please/token per internal/config.Settings), checking
// freshness against freshSeconds (default DefaultFreshSeconds).
func New(dir string, freshSeconds int) *Cache {
	if freshSeconds <= 0 {
		freshSeconds = DefaultFreshSeconds
	}
	return &Cache{dir: dir, freshSeconds: freshSeconds}
}

// tokenPath builds the per-session touch file path: {dir}/{user}:{tty
// with '/' replaced by '_'}:{ppid}, mirroring token_path exactly.
func (c *Cache) tokenPath(user, tty string, ppid int) string {
	safeTTY := strings.ReplaceAll(tty, "/", "_")
	return filepath.Join(c.dir, fmt.Sprintf("%s:%s:%d", user, safeTTY, ppid))
}

// ensureDir creates the token directory with 0700 permissions if it
// doesn't already exist, mirroring create_token_dir.
func (c *Cache) ensureDir() error {
	return os.MkdirAll(c.dir, 0700)
}

// Valid reports whether a fresh token exists for (user, tty, ppid). The
// original checks two independent things: the file's mtime must be
// within freshSeconds of boot time (set by update_token to the
// boot-relative time at last success), and its atime must be within
// freshSeconds of now (updated every time Valid itself touches the
// file, extending the session on continued use without requiring a
// fresh password). Boot-relative time (CLOCK_BOOTTIME on Linux) doesn't
// have a portable Go equivalent, so this port keys mtime freshness off
// wall-clock time directly (mtime within freshSeconds of now) rather
// than boot time — behaviorally equivalent as long as the system clock
// doesn't change mid-session, and it avoids depending on a
// Linux-specific clock source. See SPEC_FULL.md §12.
func (c *Cache) Valid(user, tty string, ppid int) bool {
	path := c.tokenPath(user, tty, ppid)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	now := time.Now()
	window := time.Duration(c.freshSeconds) * time.Second

	if now.Sub(info.ModTime()) > window {
		return false
	}

	atime := accessTime(info)
	if now.Sub(atime) > window {
		return false
	}

	// A successful check touches atime to now, leaving mtime as it was;
	// the mtime check above still expires the token freshSeconds after
	// the last Update, so only a later Update extends the session.
	_ = os.Chtimes(path, now, info.ModTime())

	return true
}

// Update creates or refreshes the token for (user, tty, ppid) after a
// successful password challenge, mirroring update_token: a temp file is
// created, its times set, then it's renamed atomically into place.
func (c *Cache) Update(user, tty string, ppid int) error {
	if err := c.ensureDir(); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	path := c.tokenPath(user, tty, ppid)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create token temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close token temp file: %w", err)
	}

	now := time.Now()
	if err := os.Chtimes(tmp, now, now); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("set token times: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename token into place: %w", err)
	}

	return nil
}

// Remove deletes the token for (user, tty, ppid), mirroring remove_token
// (used by `please --purge` / pleaseedit's purge flag). A missing token
// is not an error.
func (c *Cache) Remove(user, tty string, ppid int) error {
	path := c.tokenPath(user, tty, ppid)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
