//go:build windows

package editflow

import "io"

// RunEditor is unavailable on Windows; please is inherently a
// Unix/setuid-based tool (see internal/glue/priv).
func RunEditor(editorPath, editFile string, invokerUID, invokerGID uint32, env []string) error {
	return ErrEditorFailed
}

// RunExitCmd is unavailable on Windows for the same reason.
func RunExitCmd(argv []string, targetUID, targetGID uint32, env []string, stdout, stderr io.Writer) error {
	return ErrExitCmdFailed
}
