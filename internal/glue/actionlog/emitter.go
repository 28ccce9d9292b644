package actionlog

import (
	"errors"
	"fmt"
)

// Emitter fans out each Record to syslog and to a local rotating Store,
// matching log_action's dual destinations. A policy entry's syslog
// effect (Decision.Syslog) controls whether the syslog write happens at
// all; the local file always receives every record so `please --list`-
// adjacent tooling always has a durable trail.
type Emitter struct {
	tag     string
	syslog  *syslogWriter
	store   Store
}

// NewEmitter opens the syslog connection (best-effort: a failure to
// reach syslog is silently ignored and the Emitter writes to store only,
// since policy evaluation must not be blocked by logging infrastructure)
// and wraps store.
func NewEmitter(tag string, store Store) *Emitter {
	w, _ := newSyslogWriter(tag)
	return &Emitter{tag: tag, syslog: w, store: store}
}

// Emit records rec. toSyslog controls whether the syslog write is
// attempted (mirrors Decision.Syslog); the local store always receives
// the record regardless.
func (e *Emitter) Emit(rec Record, toSyslog bool) error {
	var errs []error

	if e.store != nil {
		if err := e.store.Append(rec); err != nil {
			errs = append(errs, fmt.Errorf("action log store: %w", err))
		}
	}
	if toSyslog && e.syslog != nil {
		if err := e.syslog.write(rec); err != nil {
			errs = append(errs, fmt.Errorf("action log syslog: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Close releases the syslog connection and the underlying store.
func (e *Emitter) Close() error {
	var errs []error
	if e.syslog != nil {
		if err := e.syslog.close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
