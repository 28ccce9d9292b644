package policy

import "errors"

// ErrReasonRequired is returned by ReasonOK when the decision demands a
// justification the request didn't supply.
var ErrReasonRequired = errors.New("a reason is required for this action")

// ErrReasonMismatch is returned when a supplied reason doesn't match the
// decision's required pattern.
var ErrReasonMismatch = errors.New("reason does not match the required pattern")

// ReasonOK checks the request's supplied reason against the decision's
// reason requirement, mirroring original_source/src/lib.rs::reason_ok.
func ReasonOK(d Decision, req Request) error {
	switch d.Reason.Kind {
	case ReasonNotRequired:
		return nil
	case ReasonRequired:
		if !req.HasReason() {
			return ErrReasonRequired
		}
		return nil
	case ReasonPattern:
		if !req.HasReason() {
			return ErrReasonRequired
		}
		if d.Reason.Pattern == nil || !d.Reason.Pattern.MatchString(req.Reason) {
			return ErrReasonMismatch
		}
		return nil
	default:
		return nil
	}
}
