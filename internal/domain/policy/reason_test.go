package policy

import "testing"

func TestReasonOK(t *testing.T) {
	tests := []struct {
		name    string
		d       Decision
		req     Request
		wantErr error
	}{
		{
			name:    "not required, no reason given",
			d:       Decision{Reason: Reason{Kind: ReasonNotRequired}},
			req:     Request{},
			wantErr: nil,
		},
		{
			name:    "required but missing",
			d:       Decision{Reason: Reason{Kind: ReasonRequired}},
			req:     Request{},
			wantErr: ErrReasonRequired,
		},
		{
			name:    "required and given",
			d:       Decision{Reason: Reason{Kind: ReasonRequired}},
			req:     Request{Reason: "restarting service after patch"},
			wantErr: nil,
		},
		{
			name:    "pattern mismatch",
			d:       Decision{Reason: Reason{Kind: ReasonPattern, Pattern: mustMatcher(t, "INC-[0-9]+")}},
			req:     Request{Reason: "no ticket"},
			wantErr: ErrReasonMismatch,
		},
		{
			name:    "pattern match",
			d:       Decision{Reason: Reason{Kind: ReasonPattern, Pattern: mustMatcher(t, "INC-[0-9]+")}},
			req:     Request{Reason: "INC-4821"},
			wantErr: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ReasonOK(tc.d, tc.req)
			if err != tc.wantErr {
				t.Errorf("ReasonOK() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
