// Command pleaseedit privileged-edits a single file under the same
// regex/INI policy engine please itself uses.
package main

import "github.com/please-project/please/cmd/pleaseedit/cmd"

func main() {
	cmd.Execute()
}
