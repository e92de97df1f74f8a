// Package validator implements the stream validator (§4.5): it drives the
// message framer, the attachment parser and the state evolver over a byte
// stream of one or more (frame, attachment) pairs, verifies every attached
// signature against the correct key set, enforces the applicable
// threshold, and persists accepted events through a Log.
package validator

import (
	"context"
	"fmt"

	"github.com/cvsouth/keri-go/pkg/keriox/attach"
	"github.com/cvsouth/keri-go/pkg/keriox/codec"
	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/event"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
	"github.com/cvsouth/keri-go/pkg/keriox/log"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
	"github.com/cvsouth/keri-go/pkg/keriox/state"
)

// Result reports the outcome of processing one message in a stream.
type Result struct {
	Identifier string
	Sn         uint64
	Type       event.Type
	State      *event.IdentifierState // nil for receipts
}

// Process validates every (frame, attachment) pair in stream against log,
// in order, committing each accepted key event's resulting state and
// appending each accepted receipt. It stops at the first rejected message.
func Process(ctx context.Context, l log.Log, stream []byte) ([]Result, error) {
	var results []Result
	for len(stream) > 0 {
		frame, rest, err := codec.ParseFrame(stream)
		if err != nil {
			return results, err
		}
		group, rest2, err := attach.Parse(rest, frame.Event.Type)
		if err != nil {
			return results, err
		}
		stream = rest2

		r, err := processOne(ctx, l, frame, group)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func processOne(ctx context.Context, l log.Log, frame codec.Frame, group attach.Group) (Result, error) {
	e := frame.Event
	if e.Type.IsKeyEvent() {
		return processKeyEvent(ctx, l, frame, group)
	}
	switch e.Type {
	case event.TypeRct:
		return processNontransferableReceipt(ctx, l, e, group)
	case event.TypeVrc:
		return processTransferableReceipt(ctx, l, e, group)
	default:
		return Result{}, kerr.Malformed("unrecognized event type %q", e.Type)
	}
}

func processKeyEvent(ctx context.Context, l log.Log, frame codec.Frame, group attach.Group) (Result, error) {
	e := frame.Event

	prior, err := l.GetState(ctx, e.Prefix)
	if err != nil {
		return Result{}, kerr.Log("get-state", err)
	}

	next, err := state.Apply(prior, e, frame.Raw)
	if err != nil {
		return Result{}, err
	}

	if err := verifyThreshold(next.CurrentKeys, next.CurrentThreshold, frame.Raw, group.Signatures); err != nil {
		return Result{}, err
	}

	if err := l.AppendEvent(ctx, e.Prefix, frame.Raw, e); err != nil {
		return Result{}, kerr.Log("append-event", err)
	}
	if err := l.CommitState(ctx, next); err != nil {
		return Result{}, kerr.Log("commit-state", err)
	}

	return Result{Identifier: e.Prefix, Sn: e.Sn, Type: e.Type, State: next}, nil
}

// verifyThreshold checks that at least threshold distinct, in-range
// signature indices verify against keys over msg.
func verifyThreshold(keys []prefix.Prefix, threshold int, msg []byte, sigs []prefix.AttachedSignature) error {
	seen := make(map[int]bool)
	firstInvalid := -1
	for _, sig := range sigs {
		if sig.Index < 0 || sig.Index >= len(keys) {
			continue
		}
		if seen[sig.Index] {
			continue
		}
		key := keys[sig.Index]
		ok, err := derive.Verify(key.Code.Algorithm, key.Raw, msg, sig.Raw)
		if err != nil {
			return err
		}
		if ok {
			seen[sig.Index] = true
		} else if firstInvalid < 0 {
			firstInvalid = sig.Index
		}
	}
	if len(seen) < threshold {
		if firstInvalid >= 0 {
			return kerr.SignatureInvalid(firstInvalid)
		}
		return kerr.Semantic(kerr.KindThresholdUnmet, "only %d of %d required signatures verified", len(seen), threshold)
	}
	return nil
}

func processNontransferableReceipt(ctx context.Context, l log.Log, e *event.Event, group attach.Group) (Result, error) {
	targetRaw, _, err := l.GetEvent(ctx, e.TargetPrefix, e.TargetSn)
	if err != nil {
		return Result{}, kerr.Log("get-event", err)
	}
	targetState, err := l.GetState(ctx, e.TargetPrefix)
	if err != nil {
		return Result{}, kerr.Log("get-state", err)
	}
	if targetState == nil {
		return Result{}, kerr.Semantic(kerr.KindOutOfOrder, "receipt for an identifier with no established state")
	}

	valid := 0
	for _, c := range group.Couplets {
		inSet := false
		for _, w := range targetState.Witnesses {
			if w.Equal(c.Witness) {
				inSet = true
				break
			}
		}
		if !inSet {
			continue
		}
		ok, err := derive.Verify(derive.AlgEd25519Sha512, c.Witness.Raw, targetRaw, c.Signature.Raw)
		if err != nil {
			return Result{}, err
		}
		if ok {
			valid++
		}
	}
	if valid < targetState.WitnessThreshold {
		return Result{}, kerr.Semantic(kerr.KindThresholdUnmet, "only %d of %d required witness receipts verified", valid, targetState.WitnessThreshold)
	}
	if err := l.AppendReceipt(ctx, e.TargetPrefix, e.TargetSn, group.Couplets); err != nil {
		return Result{}, kerr.Log("append-receipt", err)
	}
	return Result{Identifier: e.TargetPrefix, Sn: e.TargetSn, Type: e.Type}, nil
}

func processTransferableReceipt(ctx context.Context, l log.Log, e *event.Event, group attach.Group) (Result, error) {
	signerState, err := l.GetState(ctx, e.Prefix)
	if err != nil {
		return Result{}, kerr.Log("get-state", err)
	}
	if signerState == nil {
		return Result{}, kerr.Semantic(kerr.KindOutOfOrder, "transferable receipt from an identifier with no established state")
	}
	if signerState.Sn != e.Sn {
		return Result{}, kerr.Semantic(kerr.KindOutOfOrder, fmt.Sprintf("transferable receipt declares signer sn %d but current signer state is at sn %d", e.Sn, signerState.Sn))
	}

	targetRaw, _, err := l.GetEventByDigest(ctx, e.TargetPrefix, e.TargetDigest.Text())
	if err != nil {
		return Result{}, kerr.Log("get-event-by-digest", err)
	}
	if len(targetRaw) == 0 {
		return Result{}, kerr.Malformed("empty target event")
	}

	if err := verifyThreshold(signerState.CurrentKeys, signerState.CurrentThreshold, targetRaw, group.Signatures); err != nil {
		return Result{}, err
	}

	if err := l.AppendReceipt(ctx, e.TargetPrefix, e.TargetSn, nil); err != nil {
		return Result{}, kerr.Log("append-receipt", err)
	}
	return Result{Identifier: e.TargetPrefix, Sn: e.TargetSn, Type: e.Type}, nil
}
