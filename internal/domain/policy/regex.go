package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// userMacro and hostMacro are the two predicate-side macro tokens; OLD/NEW
// are exitcmd-side and are substituted separately by the editflow glue.
const (
	userMacro = "%{USER}"
	hostMacro = "%{HOSTNAME}"
)

// compile builds a Matcher from a raw pattern string: %{USER} and
// %{HOSTNAME} are replaced with literal text from the request before the
// pattern is parsed, and the result is anchored end-to-end so that only
// full-string matches succeed (spec invariant ii — this is
// security-relevant: an unanchored rule is a trivial bypass).
//
// Macro substitution is plain text replacement performed before regex
// parsing; a literal "%" in a pattern that must not be treated as a macro
// needs no escaping (only the literal token "%{USER}"/"%{HOSTNAME}" is
// special), but a user wanting a literal "%{USER}" substring must route
// around substitution via a regex hex escape, as noted in spec.md §4.1.
func compile(pattern string, req Request, source, section string, line int) (*Matcher, error) {
	expanded := strings.ReplaceAll(pattern, userMacro, req.Name)
	expanded = strings.ReplaceAll(expanded, hostMacro, req.Hostname)

	anchored := "^" + expanded + "$"
	re, err := regexp.Compile(anchored)
	if err != nil {
		loc := source
		if line > 0 {
			loc = fmt.Sprintf("%s: %s:%d", source, section, line)
		}
		return nil, fmt.Errorf("parsing %s: %w", loc, err)
	}

	return &Matcher{Source: pattern, compiled: re}, nil
}
