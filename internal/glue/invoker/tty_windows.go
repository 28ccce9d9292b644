//go:build windows

package invoker

// ttyName has no Windows equivalent; please is inherently a Unix/setuid
// tool (see internal/glue/priv), so this always reports no tty.
func ttyName() string {
	return ""
}
