// Package state implements the state evolver (§4.4): given an identifier's
// current state (or none, for an inception) and the next event in its log,
// it either returns the successor state or reports exactly which
// precondition the event violated.
package state

import (
	"bytes"

	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/event"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
)

// Apply evolves prior (nil for Icp/Dip) by e, whose raw encoding is raw,
// and returns the resulting state. It never mutates prior.
func Apply(prior *event.IdentifierState, e *event.Event, raw []byte) (*event.IdentifierState, error) {
	switch e.Type {
	case event.TypeIcp:
		if prior != nil {
			return nil, kerr.Semantic(kerr.KindOutOfOrder, "inception event for an identifier that already has state")
		}
		return applyInception(e, raw, "")
	case event.TypeDip:
		if prior != nil {
			return nil, kerr.Semantic(kerr.KindOutOfOrder, "delegated inception event for an identifier that already has state")
		}
		if e.Delegator == nil {
			return nil, kerr.Semantic(kerr.KindMissingDelegator, "dip event carries no delegating seal")
		}
		return applyInception(e, raw, e.Delegator.I)
	case event.TypeRot:
		return applyRotation(prior, e, raw, false)
	case event.TypeDrt:
		return applyRotation(prior, e, raw, true)
	case event.TypeIxn:
		return applyInteraction(prior, e, raw)
	default:
		return nil, kerr.Semantic(kerr.KindWrongIdentifier, "apply called with non-key-event type %s", e.Type)
	}
}

func applyInception(e *event.Event, raw []byte, delegator string) (*event.IdentifierState, error) {
	if e.Sn != 0 {
		return nil, kerr.Semantic(kerr.KindOutOfOrder, "inception event must have sequence number 0, got %d", e.Sn)
	}
	if err := validateInceptionPrefix(e); err != nil {
		return nil, err
	}
	lastDigest, err := digestFrame(raw)
	if err != nil {
		return nil, err
	}
	return &event.IdentifierState{
		Prefix:           e.Prefix,
		Sn:               0,
		LastEventDigest:  lastDigest,
		CurrentKeys:      e.Keys,
		CurrentThreshold: e.Threshold,
		NextKeysDigest:   e.NextKeysDigest,
		WitnessThreshold: e.WitnessThreshold,
		Witnesses:        e.Witnesses,
		Delegator:        delegator,
		ConfigTraits:     e.ConfigTraits,
	}, nil
}

// validateInceptionPrefix checks that the inception event's own identifier
// prefix is correctly derived from its content: for a Basic identifier, it
// must equal the sole signing key; for a SelfAddressing identifier, it
// must equal the digest of the event with the identifier field held at its
// placeholder value.
func validateInceptionPrefix(e *event.Event) error {
	info, err := derive.Lookup(e.Prefix)
	if err != nil {
		return err
	}
	switch info.Class {
	case derive.ClassBasic:
		if len(e.Keys) != 1 {
			return kerr.Semantic(kerr.KindWrongIdentifier, "non-transferable inception must have exactly one signing key")
		}
		p, err := prefix.Parse(e.Prefix)
		if err != nil {
			return err
		}
		if !p.Equal(e.Keys[0]) {
			return kerr.Semantic(kerr.KindWrongIdentifier, "non-transferable inception identifier does not match its sole signing key")
		}
		return nil
	case derive.ClassSelfAddressing:
		said, err := e.SAID(info.Code)
		if err != nil {
			return err
		}
		p, err := prefix.Parse(e.Prefix)
		if err != nil {
			return err
		}
		if !bytes.Equal(said, p.Raw) {
			return kerr.Semantic(kerr.KindWrongIdentifier, "self-addressing inception identifier does not match its own digest")
		}
		return nil
	default:
		return kerr.Semantic(kerr.KindWrongIdentifier, "unsupported inception prefix class")
	}
}

func applyRotation(prior *event.IdentifierState, e *event.Event, raw []byte, delegated bool) (*event.IdentifierState, error) {
	if prior == nil {
		return nil, kerr.Semantic(kerr.KindOutOfOrder, "rotation event with no prior state")
	}
	if e.Sn != prior.Sn+1 {
		return nil, kerr.Semantic(kerr.KindOutOfOrder, "rotation sequence number %d does not follow %d", e.Sn, prior.Sn)
	}
	if e.Prefix != prior.Prefix {
		return nil, kerr.Semantic(kerr.KindWrongIdentifier, "rotation identifier %q does not match prior state %q", e.Prefix, prior.Prefix)
	}
	if !e.Prior.Equal(prior.LastEventDigest) {
		return nil, kerr.Semantic(kerr.KindBadPriorDigest, "rotation prior-digest does not match the last applied event")
	}
	if delegated {
		if prior.Delegator == "" {
			return nil, kerr.Semantic(kerr.KindMissingDelegator, "delegated rotation for an identifier with no delegator")
		}
		if e.Delegator == nil || e.Delegator.I != prior.Delegator {
			return nil, kerr.Semantic(kerr.KindMissingDelegator, "delegated rotation does not anchor to the established delegator")
		}
	}
	if err := verifyNextKeysCommitment(prior, e); err != nil {
		return nil, err
	}
	witnesses, err := mutateWitnesses(prior.Witnesses, e.WitnessesRemoved, e.WitnessesAdded)
	if err != nil {
		return nil, err
	}
	lastDigest, err := digestFrame(raw)
	if err != nil {
		return nil, err
	}
	next := prior.Clone()
	next.Sn = e.Sn
	next.LastEventDigest = lastDigest
	next.CurrentKeys = e.Keys
	next.CurrentThreshold = e.Threshold
	next.NextKeysDigest = e.NextKeysDigest
	next.Witnesses = witnesses
	if e.WitnessThreshold != 0 {
		next.WitnessThreshold = e.WitnessThreshold
	}
	return next, nil
}

// verifyNextKeysCommitment checks that e's new key set matches the digest
// prior's inception or last rotation committed to: the digest, using the
// committed digest's own algorithm, of the concatenation of the new keys'
// encoded text.
func verifyNextKeysCommitment(prior *event.IdentifierState, e *event.Event) error {
	if prior.NextKeysDigest.Zero() {
		return kerr.Semantic(kerr.KindNextKeysMismatch, "prior state commits to no next keys")
	}
	var buf bytes.Buffer
	for _, k := range e.Keys {
		buf.WriteString(k.Text())
	}
	info := prior.NextKeysDigest.Code
	got, err := derive.Digest(info.Algorithm, buf.Bytes())
	if err != nil {
		return err
	}
	if !bytes.Equal(got, prior.NextKeysDigest.Raw) {
		return kerr.Semantic(kerr.KindNextKeysMismatch, "rotation keys do not match the committed next-keys digest")
	}
	return nil
}

// mutateWitnesses removes removed from current (erroring if any removal
// target is absent) and then appends added (erroring on any duplicate),
// matching the order the event declares them in.
func mutateWitnesses(current, removed, added []prefix.Prefix) ([]prefix.Prefix, error) {
	next := append([]prefix.Prefix(nil), current...)
	for _, r := range removed {
		idx := -1
		for i, w := range next {
			if w.Equal(r) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, kerr.Semantic(kerr.KindWitnessSetInvalid, "witness removal %s is not in the current witness set", r.Text())
		}
		next = append(next[:idx], next[idx+1:]...)
	}
	for _, a := range added {
		for _, w := range next {
			if w.Equal(a) {
				return nil, kerr.Semantic(kerr.KindWitnessSetInvalid, "witness addition %s is already in the witness set", a.Text())
			}
		}
		next = append(next, a)
	}
	return next, nil
}

func applyInteraction(prior *event.IdentifierState, e *event.Event, raw []byte) (*event.IdentifierState, error) {
	if prior == nil {
		return nil, kerr.Semantic(kerr.KindOutOfOrder, "interaction event with no prior state")
	}
	if e.Sn != prior.Sn+1 {
		return nil, kerr.Semantic(kerr.KindOutOfOrder, "interaction sequence number %d does not follow %d", e.Sn, prior.Sn)
	}
	if e.Prefix != prior.Prefix {
		return nil, kerr.Semantic(kerr.KindWrongIdentifier, "interaction identifier %q does not match prior state %q", e.Prefix, prior.Prefix)
	}
	if !e.Prior.Equal(prior.LastEventDigest) {
		return nil, kerr.Semantic(kerr.KindBadPriorDigest, "interaction prior-digest does not match the last applied event")
	}
	lastDigest, err := digestFrame(raw)
	if err != nil {
		return nil, err
	}
	next := prior.Clone()
	next.Sn = e.Sn
	next.LastEventDigest = lastDigest
	return next, nil
}

func digestFrame(raw []byte) (prefix.Prefix, error) {
	return prefix.Digest(derive.DefaultSelfAddressing, raw)
}
