package editflow

import "os"

// Session describes the identities and paths involved in a single
// pleaseedit invocation.
type Session struct {
	Service    string
	SourceFile string
	InvokerUID uint32
	InvokerGID uint32
	TargetUID  uint32
	TargetGID  uint32
	InvokerName string
	Env        []string
}

// EditModeOverride carries an entry's optional edit_mode, if configured.
type EditModeOverride struct {
	Set  bool
	Bits int
}

// Edit runs the full pleaseedit sequence for sess using editorPath, and
// (if exitcmd is non-empty) validates the result with exitcmd before
// finalizing. If the editor or the exitcmd fails, the staged temp file
// is removed before returning; on success the source file has already
// been replaced and no temp artifacts remain.
func Edit(sess Session, editorPath, exitcmd string, mode EditModeOverride) error {
	if err := CheckNotSymlink(sess.SourceFile); err != nil {
		return err
	}

	tempPath := TempFilePath(sess.Service, sess.SourceFile, sess.InvokerName)
	if err := SetupTempFile(tempPath, sess.SourceFile, int(sess.InvokerUID), int(sess.InvokerGID)); err != nil {
		return err
	}

	if err := RunEditor(editorPath, tempPath, sess.InvokerUID, sess.InvokerGID, sess.Env); err != nil {
		_ = os.Remove(tempPath)
		return err
	}

	if exitcmd != "" {
		argv, err := BuildExitCmdArgv(exitcmd, sess.SourceFile, tempPath)
		if err != nil {
			_ = os.Remove(tempPath)
			return err
		}
		if err := RunExitCmd(argv, sess.TargetUID, sess.TargetGID, sess.Env, os.Stdout, os.Stderr); err != nil {
			_ = os.Remove(tempPath)
			return err
		}
	}

	return FinalizeEdit(sess.Service, sess.InvokerName, sess.SourceFile, tempPath, int(sess.TargetUID), int(sess.TargetGID), mode.Set, mode.Bits)
}
