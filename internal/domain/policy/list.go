package policy

import (
	"fmt"
	"io"
	"time"
)

// ListEntries renders list, restricted to entries matching req's acl
// type and identity/hostname/target-group predicates (but not its rule
// or directory — a listing shows everything the invoker could ask for
// of that acl type, not one specific command), to w. The format mirrors
// original_source/src/lib.rs::produce_list exactly, including its
// "upcomming" typo, which is preserved verbatim since it is
// user-visible CLI output, not a symbol: changing it would be an
// unrequested behavior change (SPEC_FULL.md §12).
func ListEntries(list PolicyList, req Request, now time.Time, w io.Writer) error {
	lastFile := ""
	for _, e := range list {
		if !listApplies(e, req) {
			continue
		}

		if e.FileName != lastFile {
			if _, err := fmt.Fprintf(w, "  in file: %s\n", e.FileName); err != nil {
				return err
			}
			lastFile = e.FileName
		}

		prefix := listPrefix(e, req, now)
		target := listTarget(e)

		var line string
		switch e.AclType {
		case AclList:
			line = fmt.Sprintf("    %s:%slist: %s", e.Section, prefix, target)
		default:
			pass, dirs := listEffects(e)
			line = fmt.Sprintf("    %s:%s%s(pass=%t,dirs=%s): %s",
				e.Section, prefix, target, pass, dirs, listRule(e))
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// listApplies restricts a listing to entries of req's acl type whose
// identity/hostname predicates match the invoker, independent of
// command/directory, since a listing enumerates everything an invoker is
// configured for.
func listApplies(e Entry, req Request) bool {
	return acltypeOK(e, req) && nameOK(e, req) && hostnameOK(e, req) && targetGroupOK(e, req)
}

func listPrefix(e Entry, req Request, now time.Time) string {
	if e.NotBefore != nil && now.Before(*e.NotBefore) {
		return fmt.Sprintf("upcomming(%s)", e.NotBefore.Format("2006-01-02"))
	}
	if e.NotAfter != nil && now.After(*e.NotAfter) {
		return fmt.Sprintf("expired(%s)", e.NotAfter.Format("2006-01-02"))
	}
	if rk, ok := e.ReasonEff.get(); ok && rk.Kind != ReasonNotRequired {
		return "reason_required"
	}
	if permit, ok := e.Permit.get(); ok && !permit {
		return "not permitted"
	}
	if last, ok := e.Last.get(); ok && last {
		return "last"
	}
	return ""
}

func listTarget(e Entry) string {
	if e.ExactTarget != "" {
		return e.ExactTarget
	}
	if e.Target != nil {
		return e.Target.Source
	}
	return "any"
}

func listRule(e Entry) string {
	if e.ExactRule != "" {
		return e.ExactRule
	}
	if e.Rule != nil {
		return e.Rule.Source
	}
	return ""
}

func listEffects(e Entry) (pass bool, dirs string) {
	pass = true
	if v, ok := e.RequirePass.get(); ok {
		pass = v
	}
	if e.ExactDir != "" {
		dirs = e.ExactDir
	} else if e.Dir != nil {
		dirs = e.Dir.Source
	} else {
		dirs = "any"
	}
	return pass, dirs
}
