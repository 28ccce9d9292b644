package policy

import "testing"

func mustMatcher(t *testing.T, pattern string) *Matcher {
	t.Helper()
	m, err := compile(pattern, Request{}, "test", "test", 0)
	if err != nil {
		t.Fatalf("compile(%q): %v", pattern, err)
	}
	return m
}

// TestHostnameWildcard pins the wildcard quirk to the entry side, per
// original_source/src/lib.rs::hostname_ok and the regression scenarios
// in original_source/tests/exact.rs::test_exact_hostname: an entry
// configured with exact_hostname/hostname "any" or "localhost" applies
// to every request hostname, but an entry scoped to a real hostname is
// never loosened just because the request's hostname happens to be
// literally "any" or "localhost".
func TestHostnameWildcard(t *testing.T) {
	wildcardExact := Entry{ExactHostname: "any"}
	if !hostnameOK(wildcardExact, Request{Hostname: "web1"}) {
		t.Error("exact_hostname=any should match every request hostname")
	}

	localhostExact := Entry{ExactHostname: "localhost"}
	if !hostnameOK(localhostExact, Request{Hostname: "thing"}) {
		t.Error("exact_hostname=localhost should match every request hostname")
	}

	scoped := Entry{ExactHostname: "thing"}
	if hostnameOK(scoped, Request{Hostname: "localhost"}) {
		t.Error("exact_hostname=thing must not match a request hostname of localhost")
	}
	if !hostnameOK(scoped, Request{Hostname: "thing"}) {
		t.Error("exact_hostname=thing should match a request hostname of thing")
	}

	wildcardRegex := Entry{Hostname: mustMatcher(t, "any|localhost")}
	for _, host := range []string{"web1", "whatever"} {
		if !hostnameOK(wildcardRegex, Request{Hostname: host}) {
			t.Errorf("hostname regex matching the wildcard literals should apply to host %q", host)
		}
	}

	scopedRegex := Entry{Hostname: mustMatcher(t, "db[0-9]+")}
	if hostnameOK(scopedRegex, Request{Hostname: "localhost"}) {
		t.Error("hostname=db[0-9]+ must not match a request hostname of localhost")
	}
	if !hostnameOK(scopedRegex, Request{Hostname: "db1"}) {
		t.Error("hostname=db[0-9]+ should match db1")
	}
}

// TestTargetGroupOK_Regression pins the fixed behavior against the
// confirmed bug in original_source/src/lib.rs::target_group_ok, which
// compares the wrong fields (exact_target vs ro.target) when
// exact_target_group is configured. See SPEC_FULL.md §13.2 and the
// scenarios in original_source/tests/target_group.rs.
func TestTargetGroupOK_Regression(t *testing.T) {
	tests := []struct {
		name string
		e    Entry
		req  Request
		want bool
	}{
		{
			name: "exact match on target group succeeds",
			e:    Entry{ExactTargetGroup: "wheel"},
			req:  Request{TargetGroup: "wheel"},
			want: true,
		},
		{
			name: "mismatched exact target group fails",
			e:    Entry{ExactTargetGroup: "wheel"},
			req:  Request{TargetGroup: "staff"},
			want: false,
		},
		{
			name: "exact_target must not leak into target_group comparison",
			e:    Entry{ExactTargetGroup: "wheel", ExactTarget: "staff"},
			req:  Request{TargetGroup: "wheel", Target: "nobody"},
			want: true,
		},
		{
			name: "regex target group match",
			e:    Entry{TargetGroupM: mustMatcher(t, "wheel|staff")},
			req:  Request{TargetGroup: "staff"},
			want: true,
		},
		{
			name: "no target group requested, none configured: applies",
			e:    Entry{},
			req:  Request{},
			want: true,
		},
		{
			name: "no target group requested, one configured: does not apply",
			e:    Entry{ExactTargetGroup: "wheel"},
			req:  Request{},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := targetGroupOK(tc.e, tc.req)
			if got != tc.want {
				t.Errorf("targetGroupOK() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNameOK_EmptyExactNameIsUnset(t *testing.T) {
	e := Entry{ExactName: "", Name: mustMatcher(t, "al.*")}
	if !nameOK(e, Request{Name: "alice"}) {
		t.Error("empty exact_name should fall through to the name regex")
	}
	if nameOK(e, Request{Name: "bob"}) {
		t.Error("name regex should not match bob")
	}
}

func TestGroupMatches(t *testing.T) {
	e := Entry{Group: true, ExactName: "wheel"}
	req := Request{Groups: map[string]uint32{"wheel": 10, "staff": 20}}
	if !groupMatches(e, req) {
		t.Error("expected group membership match for wheel")
	}

	req2 := Request{Groups: map[string]uint32{"staff": 20}}
	if groupMatches(e, req2) {
		t.Error("expected no match: invoker is not in wheel")
	}
}

// TestDirectoryOK pins original_source/src/lib.rs::directory_check_ok's
// "directory change must be explicitly authorized" rule (see
// original_source/tests/tests.rs::test_dir_given_but_none_in_match): an
// entry with no dir predicate applies only to requests that carry no
// directory change at all.
func TestDirectoryOK(t *testing.T) {
	unrestricted := Entry{}
	if directoryOK(unrestricted, Request{Directory: "/tmp"}) {
		t.Error("entry with no dir predicate must not authorize a request carrying a directory change")
	}
	if !directoryOK(unrestricted, Request{}) {
		t.Error("entry with no dir predicate should apply to a request with no directory change")
	}

	restricted := Entry{ExactDir: "/srv/app"}
	if directoryOK(restricted, Request{}) {
		t.Error("restricted entry should reject a request with no directory")
	}
	if !directoryOK(restricted, Request{Directory: "/srv/app"}) {
		t.Error("restricted entry should accept the matching directory")
	}
}

func TestEnvironmentOK(t *testing.T) {
	e := Entry{PermitEnv: mustMatcher(t, "LANG|TERM")}
	if !environmentOK(e, Request{AllowEnvList: []string{"LANG", "TERM"}}) {
		t.Error("both requested vars match the pattern, should be ok")
	}
	if environmentOK(e, Request{AllowEnvList: []string{"LANG", "PATH"}}) {
		t.Error("PATH does not match the pattern, should not be ok")
	}
}
