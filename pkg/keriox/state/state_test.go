package state

import (
	"testing"

	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/event"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
)

func basicKey(b byte) prefix.Prefix {
	raw := make([]byte, 32)
	raw[0] = b
	p, err := prefix.New(derive.ClassBasic, derive.AlgEd25519, raw)
	if err != nil {
		panic(err)
	}
	return p
}

func digestOf(t *testing.T, data []byte) prefix.Prefix {
	t.Helper()
	p, err := prefix.Digest("E", data)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestApplyInceptionRejectsNonzeroSn(t *testing.T) {
	key := basicKey(1)
	e := &event.Event{Prefix: key.Text(), Sn: 1, Type: event.TypeIcp, Threshold: 1, Keys: []prefix.Prefix{key}}
	if _, err := Apply(nil, e, []byte("frame")); !kerr.AsSemantic(err, kerr.KindOutOfOrder) {
		t.Fatalf("got %v, want out-of-order", err)
	}
}

func TestApplyInceptionRejectsMismatchedBasicIdentifier(t *testing.T) {
	key := basicKey(1)
	other := basicKey(2)
	e := &event.Event{Prefix: other.Text(), Sn: 0, Type: event.TypeIcp, Threshold: 1, Keys: []prefix.Prefix{key}}
	if _, err := Apply(nil, e, []byte("frame")); !kerr.AsSemantic(err, kerr.KindWrongIdentifier) {
		t.Fatalf("got %v, want wrong-identifier", err)
	}
}

func TestApplyInceptionAcceptsValidBasicIdentifier(t *testing.T) {
	key := basicKey(1)
	e := &event.Event{Prefix: key.Text(), Sn: 0, Type: event.TypeIcp, Threshold: 1, Keys: []prefix.Prefix{key}}
	got, err := Apply(nil, e, []byte("frame"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Prefix != key.Text() || got.Sn != 0 {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestApplyInterleavesSequenceAndPriorDigest(t *testing.T) {
	key := basicKey(1)
	icp := &event.Event{Prefix: key.Text(), Sn: 0, Type: event.TypeIcp, Threshold: 1, Keys: []prefix.Prefix{key}}
	s0, err := Apply(nil, icp, []byte("icp-frame"))
	if err != nil {
		t.Fatalf("icp: %v", err)
	}

	badPrior := &event.Event{Prefix: key.Text(), Sn: 1, Type: event.TypeIxn, Prior: digestOf(t, []byte("wrong frame"))}
	if _, err := Apply(s0, badPrior, []byte("ixn-frame")); !kerr.AsSemantic(err, kerr.KindBadPriorDigest) {
		t.Fatalf("got %v, want bad-prior-digest", err)
	}

	goodPrior := &event.Event{Prefix: key.Text(), Sn: 1, Type: event.TypeIxn, Prior: s0.LastEventDigest}
	s1, err := Apply(s0, goodPrior, []byte("ixn-frame"))
	if err != nil {
		t.Fatalf("ixn: %v", err)
	}
	if s1.Sn != 1 {
		t.Fatalf("sn = %d, want 1", s1.Sn)
	}

	outOfOrder := &event.Event{Prefix: key.Text(), Sn: 3, Type: event.TypeIxn, Prior: s1.LastEventDigest}
	if _, err := Apply(s1, outOfOrder, []byte("ixn-frame-2")); !kerr.AsSemantic(err, kerr.KindOutOfOrder) {
		t.Fatalf("got %v, want out-of-order", err)
	}
}

func TestApplyDelegatedInceptionRejectsMissingDelegatorSeal(t *testing.T) {
	key := basicKey(1)
	e := &event.Event{Prefix: key.Text(), Sn: 0, Type: event.TypeDip, Threshold: 1, Keys: []prefix.Prefix{key}}
	if _, err := Apply(nil, e, []byte("frame")); !kerr.AsSemantic(err, kerr.KindMissingDelegator) {
		t.Fatalf("got %v, want missing-delegator", err)
	}
}

func TestApplyDelegatedInceptionAcceptsDelegatorSeal(t *testing.T) {
	key := basicKey(1)
	e := &event.Event{
		Prefix: key.Text(), Sn: 0, Type: event.TypeDip, Threshold: 1, Keys: []prefix.Prefix{key},
		Delegator: &event.DelegatorSeal{I: "EDelegatorIdentifier", S: 4, EventType: event.TypeIxn},
	}
	got, err := Apply(nil, e, []byte("dip-frame"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Delegator != "EDelegatorIdentifier" {
		t.Fatalf("delegator = %q, want %q", got.Delegator, "EDelegatorIdentifier")
	}
}

func TestApplyDelegatedRotationRejectsUndelegatedPrior(t *testing.T) {
	key := basicKey(1)
	next := digestOf(t, []byte("next-keys"))
	icp := &event.Event{Prefix: key.Text(), Sn: 0, Type: event.TypeIcp, Threshold: 1, Keys: []prefix.Prefix{key}, NextKeysDigest: next}
	s0, err := Apply(nil, icp, []byte("icp-frame"))
	if err != nil {
		t.Fatalf("icp: %v", err)
	}

	drt := &event.Event{
		Prefix: key.Text(), Sn: 1, Type: event.TypeDrt, Keys: []prefix.Prefix{key}, Prior: s0.LastEventDigest,
		Delegator: &event.DelegatorSeal{I: "EDelegatorIdentifier", S: 4, EventType: event.TypeIxn},
	}
	if _, err := Apply(s0, drt, []byte("drt-frame")); !kerr.AsSemantic(err, kerr.KindMissingDelegator) {
		t.Fatalf("got %v, want missing-delegator", err)
	}
}

func TestApplyDelegatedRotationRejectsDelegatorMismatch(t *testing.T) {
	key := basicKey(1)
	next := digestOf(t, []byte("next-keys"))
	icp := &event.Event{
		Prefix: key.Text(), Sn: 0, Type: event.TypeDip, Threshold: 1, Keys: []prefix.Prefix{key}, NextKeysDigest: next,
		Delegator: &event.DelegatorSeal{I: "EDelegatorIdentifier", S: 4, EventType: event.TypeIxn},
	}
	s0, err := Apply(nil, icp, []byte("dip-frame"))
	if err != nil {
		t.Fatalf("dip: %v", err)
	}

	drt := &event.Event{
		Prefix: key.Text(), Sn: 1, Type: event.TypeDrt, Keys: []prefix.Prefix{key}, Prior: s0.LastEventDigest,
		Delegator: &event.DelegatorSeal{I: "ESomeoneElse", S: 7, EventType: event.TypeIxn},
	}
	if _, err := Apply(s0, drt, []byte("drt-frame")); !kerr.AsSemantic(err, kerr.KindMissingDelegator) {
		t.Fatalf("got %v, want missing-delegator", err)
	}
}

func TestApplyDelegatedRotationAcceptsMatchingDelegator(t *testing.T) {
	key := basicKey(1)
	rotKey := basicKey(2)
	next := digestOf(t, []byte(rotKey.Text()))
	icp := &event.Event{
		Prefix: key.Text(), Sn: 0, Type: event.TypeDip, Threshold: 1, Keys: []prefix.Prefix{key}, NextKeysDigest: next,
		Delegator: &event.DelegatorSeal{I: "EDelegatorIdentifier", S: 4, EventType: event.TypeIxn},
	}
	s0, err := Apply(nil, icp, []byte("dip-frame"))
	if err != nil {
		t.Fatalf("dip: %v", err)
	}

	drt := &event.Event{
		Prefix: key.Text(), Sn: 1, Type: event.TypeDrt, Threshold: 1, Keys: []prefix.Prefix{rotKey}, Prior: s0.LastEventDigest,
		Delegator: &event.DelegatorSeal{I: "EDelegatorIdentifier", S: 5, EventType: event.TypeRot},
	}
	s1, err := Apply(s0, drt, []byte("drt-frame"))
	if err != nil {
		t.Fatalf("drt: %v", err)
	}
	if s1.Sn != 1 || s1.Delegator != "EDelegatorIdentifier" {
		t.Fatalf("unexpected state %+v", s1)
	}
}

func TestMutateWitnessesRejectsUnknownRemoval(t *testing.T) {
	w1 := basicKey(10)
	w2 := basicKey(11)
	if _, err := mutateWitnesses([]prefix.Prefix{w1}, []prefix.Prefix{w2}, nil); !kerr.AsSemantic(err, kerr.KindWitnessSetInvalid) {
		t.Fatalf("got %v, want witness-set-invalid", err)
	}
}

func TestMutateWitnessesRejectsDuplicateAddition(t *testing.T) {
	w1 := basicKey(10)
	if _, err := mutateWitnesses([]prefix.Prefix{w1}, nil, []prefix.Prefix{w1}); !kerr.AsSemantic(err, kerr.KindWitnessSetInvalid) {
		t.Fatalf("got %v, want witness-set-invalid", err)
	}
}

func TestMutateWitnessesAppliesRemoveThenAdd(t *testing.T) {
	w1, w2, w3 := basicKey(1), basicKey(2), basicKey(3)
	got, err := mutateWitnesses([]prefix.Prefix{w1, w2}, []prefix.Prefix{w1}, []prefix.Prefix{w3})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !got[0].Equal(w2) || !got[1].Equal(w3) {
		t.Fatalf("unexpected witness set %+v", got)
	}
}
