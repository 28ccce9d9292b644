//go:build !windows

package actionlog

import (
	"log/syslog"
	"sync"
)

// syslogWriter wraps the stdlib syslog writer, grounded on
// original_source/src/lib.rs::log_action's use of
// syslog::Formatter3164 against the AUTH facility.
type syslogWriter struct {
	mu sync.Mutex
	w  *syslog.Writer
}

func newSyslogWriter(tag string) (*syslogWriter, error) {
	w, err := syslog.New(syslog.LOG_AUTH|syslog.LOG_NOTICE, tag)
	if err != nil {
		return nil, err
	}
	return &syslogWriter{w: w}, nil
}

func (s *syslogWriter) write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := formatLine(rec)
	if rec.Action == "deny" {
		return s.w.Warning(line)
	}
	return s.w.Notice(line)
}

func (s *syslogWriter) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
