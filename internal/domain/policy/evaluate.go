package policy

// Evaluate walks policy in order, merging the effect fields of every
// entry that applies to req into a single Decision. Unlike
// original_source/src/lib.rs::can — which clones the whole matching
// entry over the running result on every match — this performs a
// genuine field-by-field merge: an entry that only sets `permit` leaves
// every other already-decided effect (require_pass, reason, editmode,
// ...) untouched. This is required by spec.md's layered-default testable
// property (§8) and is called out as a deliberate redesign in
// DESIGN.md, not an oversight.
//
// An entry whose `last` effect resolves true stops the walk: no entry
// after it can override the decision, even though it already has.
func Evaluate(list PolicyList, req Request) Decision {
	d := newDenyDecision()

	for _, e := range list {
		if !entryApplies(e, req) {
			continue
		}

		d.matchedOnce = true
		d.Section = e.Section
		d.FileName = e.FileName

		if v, ok := e.Permit.get(); ok {
			d.Permit = v
		}
		if v, ok := e.RequirePass.get(); ok {
			d.RequirePass = v
		}
		if v, ok := e.ReasonEff.get(); ok {
			d.Reason = v
		}
		if v, ok := e.Syslog.get(); ok {
			d.Syslog = v
		}
		if v, ok := e.Timeout.get(); ok {
			t := v
			d.Timeout = &t
		}
		if v, ok := e.EditModeEff.get(); ok {
			m := v
			d.EditMode = &m
		}
		if v, ok := e.ExitCmd.get(); ok {
			d.ExitCmd = v
		}
		if v, ok := e.EnvAssign.get(); ok {
			merged := make(map[string]string, len(d.EnvAssign)+len(v))
			for k, val := range d.EnvAssign {
				merged[k] = val
			}
			for k, val := range v {
				merged[k] = val
			}
			d.EnvAssign = merged
		}
		if e.PermitEnv != nil {
			d.EnvPermit = e.PermitEnv.Source
		}

		last := false
		if v, ok := e.Last.get(); ok {
			last = v
		}
		d.Last = last
		if last {
			break
		}
	}

	return d
}
