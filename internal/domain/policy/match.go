package policy

import "time"

// wildcardHosts are the two literal values that, when configured on the
// entry side (exact_hostname, or matched by the hostname regex), always
// satisfy the predicate regardless of the request's actual hostname,
// reproduced from original_source/src/lib.rs::hostname_ok. This is a
// documented quirk, not a bug: an entry writing `exact_hostname = any`
// or `hostname = ^(any|localhost)$` applies on every host, but an entry
// scoped to a real hostname is never loosened just because the request
// happens to come from a host literally named "any" or "localhost". See
// SPEC_FULL.md §13.1.
const (
	wildcardHostAny       = "any"
	wildcardHostLocalhost = "localhost"
)

// nameOK implements the identity predicate: exact_name wins when set to a
// non-empty string; an empty exact_name is treated as unset and falls
// through to the name regex, per SPEC_FULL.md §13.3. group selects
// whether Name/ExactName are matched against the invoker's own name or
// against their group memberships.
func nameOK(e Entry, req Request) bool {
	if e.Group {
		return groupMatches(e, req)
	}
	if e.ExactName != "" {
		return e.ExactName == req.Name
	}
	if e.Name != nil {
		return e.Name.MatchString(req.Name)
	}
	return false
}

func groupMatches(e Entry, req Request) bool {
	if e.ExactName != "" {
		_, ok := req.Groups[e.ExactName]
		return ok
	}
	if e.Name != nil {
		for g := range req.Groups {
			if e.Name.MatchString(g) {
				return true
			}
		}
		return false
	}
	return false
}

// hostnameOK implements the location predicate, including the wildcard
// quirk: an entry configured with exact_hostname/hostname "any" or
// "localhost" (literally, or via a regex matching those strings)
// satisfies the predicate for every request hostname.
func hostnameOK(e Entry, req Request) bool {
	if e.ExactHostname != "" {
		return e.ExactHostname == req.Hostname ||
			e.ExactHostname == wildcardHostAny ||
			e.ExactHostname == wildcardHostLocalhost
	}
	if e.Hostname != nil {
		return e.Hostname.MatchString(req.Hostname) ||
			e.Hostname.MatchString(wildcardHostAny) ||
			e.Hostname.MatchString(wildcardHostLocalhost)
	}
	// Neither predicate configured: matches any hostname, per
	// original_source/src/lib.rs::hostname_ok's fallthrough.
	return true
}

// targetOK implements the target-identity predicate. An entry that
// configures neither target nor exact_target still implicitly restricts
// to target "root", mirroring original_source/src/lib.rs's EnvOptions::
// new() which seeds target=Some("root") before the INI reader runs: an
// entry silent on target is not "matches any target" but "matches root
// only", since the original's target field is never truly absent.
func targetOK(e Entry, req Request) bool {
	if e.ExactTarget != "" {
		return e.ExactTarget == req.Target
	}
	if e.Target != nil {
		return e.Target.MatchString(req.Target)
	}
	return req.Target == "root"
}

// targetGroupOK implements the target-group predicate. The original
// Rust (original_source/src/lib.rs::target_group_ok) has a confirmed bug
// here: when exact_target_group is configured it compares exact_target
// (the wrong field) against ro.target (the wrong request field). This
// port fixes it, comparing exact_target_group against Request.TargetGroup
// as the key names indicate was intended; see SPEC_FULL.md §13.2 and the
// regression test in match_test.go.
func targetGroupOK(e Entry, req Request) bool {
	if !req.HasTargetGroup() {
		// No target group requested: the entry is eligible only if it
		// configures no target_group predicate at all.
		if e.ExactTargetGroup == "" && e.TargetGroupM == nil {
			return true
		}
		return false
	}
	if e.ExactTargetGroup != "" {
		return e.ExactTargetGroup == req.TargetGroup
	}
	if e.TargetGroupM != nil {
		return e.TargetGroupM.MatchString(req.TargetGroup)
	}
	// target_group requested but entry doesn't configure the
	// predicate at all: treated as not applicable to this entry.
	return true
}

// ruleMatches implements the command predicate.
func ruleMatches(e Entry, req Request) bool {
	if e.ExactRule != "" {
		return e.ExactRule == req.Command
	}
	if e.Rule != nil {
		return e.Rule.MatchString(req.Command)
	}
	return false
}

// directoryOK implements the working-directory predicate. An entry with
// no dir/exact_dir configured only applies to requests that don't carry
// a directory change at all: per original_source/src/lib.rs::
// directory_check_ok, a request asking to change directory must be
// explicitly authorized by some entry, so a plain entry can never grant
// a -d directory change it never mentions.
func directoryOK(e Entry, req Request) bool {
	if e.ExactDir == "" && e.Dir == nil {
		return !req.HasDirectory()
	}
	if !req.HasDirectory() {
		return false
	}
	if e.ExactDir != "" {
		return e.ExactDir == req.Directory
	}
	return e.Dir.MatchString(req.Directory)
}

// permittedDatesOK implements the notbefore/notafter/datematch temporal
// predicates. All three are independent checks and all configured ones
// must hold.
func permittedDatesOK(e Entry, req Request) bool {
	now := req.Date
	if now.IsZero() {
		now = time.Now()
	}
	if e.NotBefore != nil && now.Before(*e.NotBefore) {
		return false
	}
	if e.NotAfter != nil && now.After(*e.NotAfter) {
		return false
	}
	if e.DateMatch != nil && !e.DateMatch.MatchString(now.UTC().Format("Mon _2 Jan 15:04:05 UTC 2006")) {
		return false
	}
	return true
}

// environmentOK implements the permit_env predicate: when configured,
// every name the invoker asked to preserve (Request.AllowEnvList) must
// match the pattern.
func environmentOK(e Entry, req Request) bool {
	if e.PermitEnv == nil {
		return len(req.AllowEnvList) == 0
	}
	for _, name := range req.AllowEnvList {
		if !e.PermitEnv.MatchString(name) {
			return false
		}
	}
	return true
}

// acltypeOK reports whether the entry's declared acl type matches the
// request's.
func acltypeOK(e Entry, req Request) bool {
	return e.AclType == req.AclType
}

// entryApplies runs every predicate for e against req; an entry that
// fails any predicate takes no part in the decision merge. Per
// SPEC_FULL.md §4.4 / original_source/src/lib.rs::can, the rule/command
// predicate is skipped entirely for List requests: listing is not
// command-scoped, so an entry need not name a rule to apply to it.
func entryApplies(e Entry, req Request) bool {
	if !(acltypeOK(e, req) &&
		nameOK(e, req) &&
		hostnameOK(e, req) &&
		targetOK(e, req) &&
		targetGroupOK(e, req) &&
		directoryOK(e, req) &&
		permittedDatesOK(e, req) &&
		environmentOK(e, req)) {
		return false
	}
	if req.AclType == AclList {
		return true
	}
	return ruleMatches(e, req)
}
