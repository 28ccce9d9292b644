// Command please is a sudo-like privilege elevation tool driven by the
// regex/INI policy engine in internal/domain/policy.
package main

import "github.com/please-project/please/cmd/please/cmd"

func main() {
	cmd.Execute()
}
