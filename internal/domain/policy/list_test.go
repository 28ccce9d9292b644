package policy

import (
	"strings"
	"testing"
	"time"
)

func TestListEntries_BasicRun(t *testing.T) {
	list := PolicyList{
		{
			Section:     "admins",
			FileName:    "/etc/please.ini",
			Name:        mustMatcher(t, "alice"),
			ExactTarget: "root",
			Rule:        mustMatcher(t, "^/bin/systemctl restart .*$"),
			AclType:     AclRun,
			Permit:      optSet(true),
			RequirePass: optSet(true),
			Configured:  true,
		},
	}

	var buf strings.Builder
	if err := ListEntries(list, Request{Name: "alice"}, time.Now(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "in file: /etc/please.ini") {
		t.Errorf("expected file header, got: %s", out)
	}
	if !strings.Contains(out, "admins:root(pass=true,dirs=any): ^/bin/systemctl restart .*$") {
		t.Errorf("unexpected listing line: %s", out)
	}
}

func TestListEntries_NotPermittedPrefix(t *testing.T) {
	list := PolicyList{
		{
			Section:    "denyall",
			FileName:   "/etc/please.ini",
			Name:       mustMatcher(t, "alice"),
			Rule:       mustMatcher(t, ".*"),
			AclType:    AclRun,
			Permit:     optSet(false),
			Configured: true,
		},
	}

	var buf strings.Builder
	if err := ListEntries(list, Request{Name: "alice"}, time.Now(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "not permitted") {
		t.Errorf("expected 'not permitted' prefix, got: %s", buf.String())
	}
}

func TestListEntries_ExcludesOtherInvokers(t *testing.T) {
	list := PolicyList{
		{
			Section:    "bobonly",
			FileName:   "/etc/please.ini",
			Name:       mustMatcher(t, "bob"),
			Rule:       mustMatcher(t, ".*"),
			AclType:    AclRun,
			Permit:     optSet(true),
			Configured: true,
		},
	}

	var buf strings.Builder
	if err := ListEntries(list, Request{Name: "alice"}, time.Now(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for a non-matching invoker, got: %s", buf.String())
	}
}
