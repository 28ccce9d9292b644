package childenv

import (
	"strings"
	"testing"
)

func TestBuild_DropsUnlistedVars(t *testing.T) {
	current := []string{"TERM=xterm", "SECRET_API_KEY=abc123", "LANG=en_US.UTF-8", "RANDOM_VAR=x"}
	env := Build(current, Original{User: "alice", UID: 1000, GID: 1000}, Target{User: "root", HomeDir: "/root", Shell: "/bin/bash"}, "/bin/true")

	joined := strings.Join(env, "\n")
	if strings.Contains(joined, "SECRET_API_KEY") {
		t.Error("unlisted variable should have been dropped")
	}
	if strings.Contains(joined, "RANDOM_VAR") {
		t.Error("unlisted variable should have been dropped")
	}
	if !strings.Contains(joined, "TERM=xterm") {
		t.Error("TERM should be preserved")
	}
	if !strings.Contains(joined, "LANG=en_US.UTF-8") {
		t.Error("LANG should be preserved")
	}
}

func TestBuild_InjectsBookkeepingVars(t *testing.T) {
	env := Build(nil, Original{User: "alice", UID: 1000, GID: 1000}, Target{User: "root", HomeDir: "/root", Shell: "/bin/bash"}, "/bin/systemctl restart nginx")

	want := []string{
		"PLEASE_USER=alice",
		"PLEASE_UID=1000",
		"PLEASE_GID=1000",
		"PLEASE_COMMAND=/bin/systemctl restart nginx",
		"SUDO_USER=alice",
		"SUDO_UID=1000",
		"SUDO_GID=1000",
		"SUDO_COMMAND=/bin/systemctl restart nginx",
		"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin",
		"HOME=/root",
		"MAIL=/var/mail/root",
		"SHELL=/bin/bash",
		"USER=root",
		"LOGNAME=root",
	}

	joined := strings.Join(env, "\n")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Errorf("expected env to contain %q, got:\n%s", w, joined)
		}
	}
}
