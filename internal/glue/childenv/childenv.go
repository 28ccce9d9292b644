// Package childenv builds the environment a permitted command runs in:
// every variable from the invoker's environment is dropped except a
// small allow-list, then PLEASE_*/SUDO_* bookkeeping variables and the
// target identity's HOME/MAIL/SHELL/USER/LOGNAME are injected. Grounded
// on original_source/src/bin/please.rs::do_environment.
package childenv

import "fmt"

// preserved lists the only invoker environment variables carried
// through unchanged, matching do_environment's allow-list exactly.
var preserved = map[string]bool{
	"LANGUAGE":  true,
	"XAUTHORITY": true,
	"LANG":      true,
	"LS_COLORS": true,
	"TERM":      true,
	"DISPLAY":   true,
	"LOGNAME":   true,
}

// minimalPath is the PATH injected into every child, matching
// do_environment's hardcoded minimal PATH.
const minimalPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// Original describes the invoker's identity, needed to populate
// PLEASE_USER/PLEASE_UID/PLEASE_GID/SUDO_*.
type Original struct {
	User string
	UID  uint32
	GID  uint32
}

// Target describes the identity the command will run as.
type Target struct {
	User    string
	HomeDir string
	Shell   string
}

// Build returns the full environment (as "KEY=VALUE" strings, ready for
// exec.Cmd.Env) for a child process running command as target, given
// the invoker's current environment and identity.
func Build(currentEnv []string, orig Original, target Target, command string) []string {
	out := make([]string, 0, len(preserved)+12)

	for _, kv := range currentEnv {
		key, _, ok := splitEnv(kv)
		if ok && preserved[key] {
			out = append(out, kv)
		}
	}

	out = append(out,
		"PLEASE_USER="+orig.User,
		fmt.Sprintf("PLEASE_UID=%d", orig.UID),
		fmt.Sprintf("PLEASE_GID=%d", orig.GID),
		"PLEASE_COMMAND="+command,

		"SUDO_USER="+orig.User,
		fmt.Sprintf("SUDO_UID=%d", orig.UID),
		fmt.Sprintf("SUDO_GID=%d", orig.GID),
		"SUDO_COMMAND="+command,

		"PATH="+minimalPath,
		"HOME="+target.HomeDir,
		"MAIL=/var/mail/"+target.User,
		"SHELL="+target.Shell,
		"USER="+target.User,
		"LOGNAME="+target.User,
	)

	return out
}

func splitEnv(kv string) (key, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}
