package actionlog

import (
	"os"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFileStore_AppendAndRecent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(FileConfig{Dir: dir, CacheSize: 10}, nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	rec := Record{
		Timestamp: time.Now(),
		User:      "alice",
		Cwd:       "/home/alice",
		Tty:       "pts/0",
		Action:    "permit",
		Target:    "root",
		Type:      "run",
		Command:   "/bin/systemctl restart nginx",
	}
	if err := store.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	recent := store.Recent(1)
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent record, got %d", len(recent))
	}
	if recent[0].User != "alice" || recent[0].Command != rec.Command {
		t.Errorf("unexpected recent record: %+v", recent[0])
	}
}

func TestFileStore_SizeRotation(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(FileConfig{Dir: dir, MaxFileSizeMB: 1, CacheSize: 1000}, nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	big := make([]byte, 600)
	for i := range big {
		big[i] = 'x'
	}

	for i := 0; i < 5000; i++ {
		rec := Record{Timestamp: time.Now(), User: "alice", Command: string(big)}
		if err := store.Append(rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) < 2 {
		t.Errorf("expected size rotation to produce more than one file, got %d", len(entries))
	}
}

func TestFormatLine_EscapesQuotes(t *testing.T) {
	rec := Record{User: `ali"ce`, Command: "/bin/true"}
	line := formatLine(rec)
	if want := `user="ali\"ce"`; !contains(line, want) {
		t.Errorf("expected escaped quote in line, got: %s", line)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
