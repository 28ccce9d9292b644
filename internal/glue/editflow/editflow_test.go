package editflow

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTempFilePath(t *testing.T) {
	got := TempFilePath("please", "/etc/please.ini", "alice")
	want := "/tmp/please.ini.please.alice"
	if got != want {
		t.Errorf("TempFilePath() = %q, want %q", got, want)
	}
}

func TestCheckNotSymlink_RegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := CheckNotSymlink(path); err != nil {
		t.Errorf("CheckNotSymlink() on regular file = %v, want nil", err)
	}
}

func TestCheckNotSymlink_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(target, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	if err := CheckNotSymlink(link); err == nil {
		t.Error("expected CheckNotSymlink to reject a symlink")
	}
}

func TestCheckNotSymlink_MissingFileIsAllowed(t *testing.T) {
	dir := t.TempDir()
	if err := CheckNotSymlink(filepath.Join(dir, "does-not-exist")); err != nil {
		t.Errorf("CheckNotSymlink() on missing file = %v, want nil (not a symlink)", err)
	}
}

func TestSetupTempFile_CopiesExistingContent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.conf")
	if err := os.WriteFile(source, []byte("original content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	temp := filepath.Join(dir, "staged")
	uid, gid := os.Getuid(), os.Getgid()
	if err := SetupTempFile(temp, source, uid, gid); err != nil {
		t.Fatalf("SetupTempFile() error = %v", err)
	}

	got, err := os.ReadFile(temp)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original content\n" {
		t.Errorf("staged content = %q, want copy of source", got)
	}

	info, err := os.Stat(temp)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("staged mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSetupTempFile_CreatesEmptyWhenSourceMissing(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "does-not-exist.conf")
	temp := filepath.Join(dir, "staged")

	if err := SetupTempFile(temp, source, os.Getuid(), os.Getgid()); err != nil {
		t.Fatalf("SetupTempFile() error = %v", err)
	}

	got, err := os.ReadFile(temp)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("staged content = %q, want empty", got)
	}
}

func TestSetupTempFile_RemovesPreexistingTemp(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.conf")
	if err := os.WriteFile(source, []byte("fresh\n"), 0644); err != nil {
		t.Fatal(err)
	}
	temp := filepath.Join(dir, "staged")
	if err := os.WriteFile(temp, []byte("stale leftover\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := SetupTempFile(temp, source, os.Getuid(), os.Getgid()); err != nil {
		t.Fatalf("SetupTempFile() error = %v", err)
	}

	got, err := os.ReadFile(temp)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "fresh\n" {
		t.Errorf("staged content = %q, want fresh copy, not stale leftover", got)
	}
}

func TestBuildExitCmdArgv_Substitution(t *testing.T) {
	argv, err := BuildExitCmdArgv("/usr/sbin/visudo -c -f %{NEW}", "/etc/sudoers", "/tmp/sudoers.please.alice")
	if err != nil {
		t.Fatalf("BuildExitCmdArgv() error = %v", err)
	}
	want := []string{"/usr/sbin/visudo", "-c", "-f", "/tmp/sudoers.please.alice"}
	if len(argv) != len(want) {
		t.Fatalf("argv = %v, want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}

func TestBuildExitCmdArgv_DoesNotSubstituteArgv0(t *testing.T) {
	argv, err := BuildExitCmdArgv("%{NEW}", "/etc/sudoers", "/tmp/staged")
	if err != nil {
		t.Fatalf("BuildExitCmdArgv() error = %v", err)
	}
	if argv[0] != "%{NEW}" {
		t.Errorf("argv[0] = %q, want literal %%{NEW} (argv[0] is never macro-substituted)", argv[0])
	}
}

func TestBuildExitCmdArgv_OldMacro(t *testing.T) {
	argv, err := BuildExitCmdArgv("diff %{OLD} %{NEW}", "/etc/sudoers", "/tmp/staged")
	if err != nil {
		t.Fatalf("BuildExitCmdArgv() error = %v", err)
	}
	want := []string{"diff", "/etc/sudoers", "/tmp/staged"}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}

func TestBuildExitCmdArgv_Empty(t *testing.T) {
	if _, err := BuildExitCmdArgv("", "/etc/sudoers", "/tmp/staged"); err == nil {
		t.Error("expected error for empty exitcmd")
	}
}

func TestFinalizeEdit_RenamesOverSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "sudoers")
	if err := os.WriteFile(source, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}
	edit := filepath.Join(dir, "sudoers.please.alice")
	if err := os.WriteFile(edit, []byte("new\n"), 0600); err != nil {
		t.Fatal(err)
	}

	uid, gid := os.Getuid(), os.Getgid()
	if err := FinalizeEdit("please", "alice", source, edit, uid, gid, false, 0); err != nil {
		t.Fatalf("FinalizeEdit() error = %v", err)
	}

	got, err := os.ReadFile(source)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Errorf("source content after finalize = %q, want %q", got, "new\n")
	}
	if _, err := os.Stat(edit); !os.IsNotExist(err) {
		t.Error("expected edit file to be removed after finalize")
	}

	info, err := os.Stat(source)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("finalized mode = %v, want default 0600", info.Mode().Perm())
	}
}

func TestFinalizeEdit_HonorsEditModeOverride(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "some.conf")
	if err := os.WriteFile(source, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}
	edit := filepath.Join(dir, "some.conf.please.alice")
	if err := os.WriteFile(edit, []byte("new\n"), 0600); err != nil {
		t.Fatal(err)
	}

	uid, gid := os.Getuid(), os.Getgid()
	if err := FinalizeEdit("please", "alice", source, edit, uid, gid, true, 0644); err != nil {
		t.Fatalf("FinalizeEdit() error = %v", err)
	}

	info, err := os.Stat(source)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("finalized mode = %v, want overridden 0644", info.Mode().Perm())
	}
}
