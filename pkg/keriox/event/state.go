package event

import "github.com/cvsouth/keri-go/pkg/keriox/prefix"

// IdentifierState is the terminal state of an identifier's key-event log
// after applying every event up to and including Sn: the data an external
// verifier actually cares about, as opposed to the history that produced
// it.
type IdentifierState struct {
	Prefix          string
	Sn              uint64
	LastEventDigest prefix.Prefix

	CurrentKeys      []prefix.Prefix
	CurrentThreshold int
	NextKeysDigest   prefix.Prefix

	WitnessThreshold int
	Witnesses        []prefix.Prefix

	Delegator string // identifier prefix of the delegator, empty if none

	ConfigTraits []string
}

// Clone returns a deep copy of s, so that Apply can build a new state
// without risk of aliasing slices with the state it was derived from.
func (s *IdentifierState) Clone() *IdentifierState {
	if s == nil {
		return nil
	}
	out := *s
	out.CurrentKeys = append([]prefix.Prefix(nil), s.CurrentKeys...)
	out.Witnesses = append([]prefix.Prefix(nil), s.Witnesses...)
	out.ConfigTraits = append([]string(nil), s.ConfigTraits...)
	return &out
}
