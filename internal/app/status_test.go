package app

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"":          StatusPending,
		"pending":   StatusPending,
		"accepted":  StatusAccepted,
		"confirmed": StatusAccepted,
		"approve":   StatusAccepted,
		"approved":  StatusAccepted,
		"accept":    StatusAccepted,
		"declined":  StatusDeclined,
		"reject":    StatusDeclined,
		"rejected":  StatusDeclined,
		"cancelled": StatusCancelled,
		"waitlist":  "waitlist", // unknown values pass through
	}
	for in, want := range cases {
		if got := NormalizeStatus(in); got != want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTransitionCandidates_CanonicalFirst(t *testing.T) {
	if transitionCandidates[StatusAccepted][0] != StatusAccepted {
		t.Fatal("accept candidates must try the canonical value first")
	}
	if transitionCandidates[StatusDeclined][0] != StatusDeclined {
		t.Fatal("decline candidates must try the canonical value first")
	}
}
