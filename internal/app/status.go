package app

// Historical schema versions disagree on status vocabulary: some tables use
// confirmed/approved where we say accepted, rejected (or even cancelled) where
// we say declined. Reads normalize; writes walk an ordered candidate list and
// verify by re-reading the row.

// NormalizeStatus maps any stored status word to the canonical vocabulary for
// display. Unknown values pass through unchanged; absent defaults to pending.
func NormalizeStatus(s string) string {
	switch s {
	case "":
		return StatusPending
	case "confirmed", "approve", "approved", "accept":
		return StatusAccepted
	case "reject", "rejected":
		return StatusDeclined
	default:
		return s
	}
}

// transitionCandidates lists, per canonical target, the literal status values
// to attempt against the store, in order. The canonical word goes first so a
// store we control needs exactly one write.
var transitionCandidates = map[string][]string{
	StatusAccepted: {"accepted", "confirmed", "approved"},
	StatusDeclined: {"declined", "rejected", "cancelled"},
}
