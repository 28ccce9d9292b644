// Package editflow implements pleaseedit's privileged-file-edit
// sequence: stage a copy in /tmp owned by the invoker, run the
// invoker's editor against it with root's privileges dropped, run an
// optional exitcmd validation step, then atomically replace the
// original. Grounded on original_source/src/bin/pleaseedit.rs.
//
// The original forks and execs the editor as a child that drops
// privileges before exec'ing; this port instead sets the child's
// credentials directly via exec.Cmd's SysProcAttr, which is the
// idiomatic Go equivalent of fork-then-setuid-then-exec and avoids
// needing an actual fork(2) (Go's runtime does not support forking a
// multi-threaded process safely, so os/exec's Credential mechanism is
// used instead — see SPEC_FULL.md §12).
package editflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrSymlink is returned when the source path is a symlink, mirroring
// pleaseedit.rs's refusal to edit through one (std::fs::read_link(...).is_ok()).
var ErrSymlink = errors.New("refusing to edit a symlink")

// ErrEditorFailed is returned when the editor process exits non-zero or
// fails to start.
var ErrEditorFailed = errors.New("editor did not close cleanly")

// ErrExitCmdFailed is returned when a configured exitcmd exits non-zero.
var ErrExitCmdFailed = errors.New("exitcmd reported failure, aborting edit")

// GetEditor returns the invoker's preferred editor: $VISUAL, then
// $EDITOR, then /usr/bin/vi, mirroring lib.rs::get_editor exactly.
func GetEditor() string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "/usr/bin/vi"
}

// TempFilePath builds the staging path for editing sourceFile, matching
// setup_temp_edit_file's naming: /tmp/{basename}.{service}.{user}.
func TempFilePath(service, sourceFile, user string) string {
	return filepath.Join("/tmp", fmt.Sprintf("%s.%s.%s", filepath.Base(sourceFile), service, user))
}

// CheckNotSymlink refuses to proceed if sourceFile is a symlink, the
// security-critical check pleaseedit.rs performs before doing anything
// privileged with the path.
func CheckNotSymlink(sourceFile string) error {
	if _, err := os.Readlink(sourceFile); err == nil {
		return fmt.Errorf("%s: %w", sourceFile, ErrSymlink)
	}
	return nil
}

// SetupTempFile stages a writable copy of sourceFile (or an empty file,
// if sourceFile doesn't exist yet) at tempPath, owned by uid/gid with
// mode 0600, mirroring setup_temp_edit_file.
func SetupTempFile(tempPath, sourceFile string, uid, gid int) error {
	if _, err := os.Stat(tempPath); err == nil {
		if err := os.Remove(tempPath); err != nil {
			return fmt.Errorf("could not remove %s: %w", tempPath, err)
		}
	}

	if _, err := os.Stat(sourceFile); err == nil {
		if err := copyFile(sourceFile, tempPath); err != nil {
			return fmt.Errorf("could not copy %s to %s: %w", sourceFile, tempPath, err)
		}
	} else {
		f, err := os.Create(tempPath)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", tempPath, err)
		}
		_ = f.Close()
	}

	if err := chown(tempPath, uid, gid); err != nil {
		return fmt.Errorf("could not chown %s: %w", tempPath, err)
	}
	if err := os.Chmod(tempPath, 0600); err != nil {
		return fmt.Errorf("could not chmod %s: %w", tempPath, err)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, in, 0600)
}

// whitespaceRe splits an exitcmd string into argv, mirroring
// build_exitcmd's `Regex::new(r"\s+")`.
var whitespaceRe = regexp.MustCompile(`\s+`)

// BuildExitCmdArgv splits an exitcmd string into argv and substitutes
// %{OLD}/%{NEW} in every argument after argv[0], mirroring
// build_exitcmd exactly (argv[0], the program name, is not
// macro-substituted).
func BuildExitCmdArgv(exitcmd, sourceFile, editFile string) ([]string, error) {
	parts := whitespaceRe.Split(strings.TrimSpace(exitcmd), -1)
	if len(parts) == 0 || parts[0] == "" {
		return nil, errors.New("exitcmd has too few arguments")
	}

	argv := make([]string, len(parts))
	argv[0] = parts[0]
	for i := 1; i < len(parts); i++ {
		arg := strings.ReplaceAll(parts[i], "%{OLD}", sourceFile)
		arg = strings.ReplaceAll(arg, "%{NEW}", editFile)
		argv[i] = arg
	}
	return argv, nil
}

// FinalizeEdit copies editFile over a fresh staging path next to
// sourceFile, removes editFile, chowns the staging copy to the target
// identity, applies mode (editModeBits, or 0600 if editModeSet is
// false), then renames it into sourceFile's place — mirroring
// pleaseedit.rs's final copy/remove/chown/fchmodat/rename sequence
// exactly, including performing the rename as the last, atomic step.
// When editFile already is that staging path, it is used in place.
func FinalizeEdit(service, user, sourceFile, editFile string, targetUID, targetGID int, editModeSet bool, editModeBits int) error {
	staging := fmt.Sprintf("%s.%s.%s", sourceFile, service, user)

	if staging != editFile {
		if err := copyFile(editFile, staging); err != nil {
			return fmt.Errorf("could not copy %s to %s: %w", editFile, staging, err)
		}
		if err := os.Remove(editFile); err != nil {
			return fmt.Errorf("could not remove %s: %w", editFile, err)
		}
	}
	if err := chown(staging, targetUID, targetGID); err != nil {
		return fmt.Errorf("could not chown %s: %w", staging, err)
	}

	mode := os.FileMode(0600)
	if editModeSet {
		mode = os.FileMode(editModeBits)
	}
	if err := os.Chmod(staging, mode); err != nil {
		return fmt.Errorf("could not chmod %s: %w", staging, err)
	}

	if err := os.Rename(staging, sourceFile); err != nil {
		return fmt.Errorf("could not rename %s to %s: %w", staging, sourceFile, err)
	}

	return nil
}
