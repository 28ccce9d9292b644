// Package policy implements the please authorization engine: parsing the
// layered INI policy, evaluating a Request against it, and rendering the
// result of that evaluation.
package policy

import (
	"fmt"
	"regexp"
	"time"
)

// Acltype is the kind of operation a Request asks for.
type Acltype int

const (
	// AclRun requests execution of a command as the target identity.
	AclRun Acltype = iota
	// AclEdit requests a privileged file edit.
	AclEdit
	// AclList requests a listing of what the invoker may do.
	AclList
)

func (a Acltype) String() string {
	switch a {
	case AclEdit:
		return "edit"
	case AclList:
		return "list"
	default:
		return "run"
	}
}

// opt is a tri-state wrapper distinguishing "never mentioned in this
// section" from "explicitly set to a value" for every effect field on an
// Entry. Decision merging depends on this distinction: a field left unset
// in a matching entry must preserve whatever an earlier matching entry
// contributed, not silently reset to a zero value.
type opt[T any] struct {
	value T
	set   bool
}

func optSet[T any](v T) opt[T] { return opt[T]{value: v, set: true} }

func (o opt[T]) get() (T, bool) { return o.value, o.set }

// Matcher is a compiled, fully-anchored regular expression together with
// its original source text, as required by spec invariant (i): every
// regex is stored both compiled and as source.
type Matcher struct {
	Source   string
	compiled *regexp.Regexp
}

// MatchString reports whether s matches the anchored pattern.
func (m *Matcher) MatchString(s string) bool {
	if m == nil || m.compiled == nil {
		return false
	}
	return m.compiled.MatchString(s)
}

// ReasonKind tags the three cases a reason predicate can take.
type ReasonKind int

const (
	// ReasonNotRequired means no justification is needed.
	ReasonNotRequired ReasonKind = iota
	// ReasonRequired means any non-empty justification is needed.
	ReasonRequired
	// ReasonPattern means the justification must match a regex.
	ReasonPattern
)

// Reason is the tri-state "no / yes / pattern" reason requirement.
type Reason struct {
	Kind    ReasonKind
	Pattern *Matcher // set only when Kind == ReasonPattern
	Source  string   // raw INI value, kept for listing output
}

// EditModeKind tags the two cases an edit-mode effect can take.
type EditModeKind int

const (
	// EditKeep preserves the original file's permission bits.
	EditKeep EditModeKind = iota
	// EditNumeric replaces them with an explicit octal mode.
	EditNumeric
)

// EditMode is the bi-state "keep original perms / use this numeric mode"
// effect applied to a successfully edited file.
type EditMode struct {
	Kind EditModeKind
	Mode int // POSIX permission bits, meaningful only when Kind == EditNumeric
}

// Request is the (invoker, target, command, context) tuple being
// evaluated. It is built once from CLI input and OS facts and is never
// mutated during evaluation.
type Request struct {
	Name         string            // invoker's name
	Groups       map[string]uint32 // invoker's group memberships, name -> gid
	Target       string            // target identity, default "root"
	TargetGroup  string            // optional target group; "" means unset
	Command      string            // escape-normalized command string
	Args         []string          // original argument vector
	Hostname     string
	Directory    string // requested working directory; "" means unset
	Date         time.Time
	AclType      Acltype
	Reason       string   // user-supplied justification; "" means unset
	AllowEnvList []string // env var names the invoker wants preserved; nil means unset
}

// HasTargetGroup reports whether the request carries a target group.
func (r Request) HasTargetGroup() bool { return r.TargetGroup != "" }

// HasDirectory reports whether the request carries a working directory.
func (r Request) HasDirectory() bool { return r.Directory != "" }

// HasReason reports whether the request carries a justification.
func (r Request) HasReason() bool { return r.Reason != "" }

// Entry is one [section] worth of parsed policy. Predicate fields are
// plain optional values (nil/"" means unset) since predicates are
// evaluated once per entry and never merged across entries. Effect
// fields use opt[T] because the decision engine merges them across all
// matching entries in policy order.
type Entry struct {
	// Identity predicates.
	Name      *Matcher
	ExactName string // "" means unset; see SPEC_FULL.md §13.3
	Group     bool

	// Target predicates.
	Target           *Matcher
	ExactTarget      string
	TargetGroupM     *Matcher
	ExactTargetGroup string

	// Location predicates.
	Hostname      *Matcher
	ExactHostname string

	// Temporal predicates.
	NotBefore *time.Time
	NotAfter  *time.Time
	DateMatch *Matcher

	// Command predicates.
	Rule      *Matcher
	ExactRule string
	Dir       *Matcher
	ExactDir  string

	// Environment predicate.
	PermitEnv *Matcher

	// Effects (tri-state: unset fields inherit the previous Decision's value).
	Permit      opt[bool]
	RequirePass opt[bool]
	ReasonEff   opt[Reason]
	Syslog      opt[bool]
	Timeout     opt[int]
	EditModeEff opt[EditMode]
	ExitCmd     opt[string]
	EnvAssign   opt[map[string]string]
	EnvPermitV  *Matcher // kept separately for listing; not an effect merged into Decision
	Last        opt[bool]

	// Bookkeeping.
	AclType    Acltype
	FileName   string
	Section    string
	Configured bool
	Line       int
}

// Decision is the merged outcome returned by Evaluate. It starts as a
// deny baseline and is updated in place by each matching Entry in
// policy order.
type Decision struct {
	Permit       bool
	RequirePass  bool
	Reason       Reason
	Syslog       bool
	Timeout      *int
	EditMode     *EditMode
	ExitCmd      string
	EnvAssign    map[string]string
	EnvPermit    string // source pattern text, for diagnostics
	Section      string
	FileName     string
	Last         bool
	matchedOnce  bool
}

// newDenyDecision returns the baseline Decision: permit=false, sensible
// defaults for every other field, mirroring EnvOptions::new()'s baseline
// in the original source.
func newDenyDecision() Decision {
	return Decision{
		Permit:      false,
		RequirePass: true,
		Reason:      Reason{Kind: ReasonNotRequired},
		Syslog:      true,
	}
}

// PermitOK reports whether the decision permits the request: true iff
// the baseline was overridden by at least one matching entry whose
// permit effect was true.
func (d Decision) PermitOK() bool { return d.matchedOnce && d.Permit }

// PolicyList is an ordered sequence of Entry, in the order entries
// appeared after include/includedir expansion.
type PolicyList []Entry

// String renders an Entry's source file name plus section, used in
// diagnostics.
func (e Entry) String() string {
	return fmt.Sprintf("%s:%s", e.FileName, e.Section)
}
