package notification

// Record marks a match the user asked to be reminded about. Records are never
// removed automatically; re-requesting a reminder for the same match is a
// no-op.
type Record struct {
	MatchID string
}
