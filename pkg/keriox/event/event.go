package event

import (
	"strconv"

	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
)

// Type discriminates the seven key-event-stream message types.
type Type string

const (
	TypeIcp Type = "icp" // inception
	TypeRot Type = "rot" // rotation
	TypeIxn Type = "ixn" // interaction
	TypeDip Type = "dip" // delegated inception
	TypeDrt Type = "drt" // delegated rotation
	TypeRct Type = "rct" // nontransferable receipt
	TypeVrc Type = "vrc" // transferable (validator) receipt
)

// IsKeyEvent reports whether t establishes or evolves identifier state, as
// opposed to receipting one (Rct, Vrc).
func (t Type) IsKeyEvent() bool {
	switch t {
	case TypeIcp, TypeRot, TypeIxn, TypeDip, TypeDrt:
		return true
	default:
		return false
	}
}

// Seal anchors external data, or a reference to another event, into a key
// event's "a" list. Which of its fields are meaningful depends on which
// wire fields were present: Dig alone is a Digest seal; I+S+Dig
// together is an Event seal; I+S+EventType+Prior is a Location seal.
type Seal struct {
	I         string
	S         uint64
	EventType Type
	Prior     prefix.Prefix
	Dig       prefix.Prefix
}

// DelegatorSeal locates the delegating event a Dip or Drt event was
// anchored into, in the same (identifier, sn, type, prior-digest) shape as
// a Location seal.
type DelegatorSeal struct {
	I         string
	S         uint64
	EventType Type
	Prior     prefix.Prefix
}

// Event is the domain representation of one key-event-stream message: the
// common envelope (prefix, sequence number, type) plus whichever of the
// type-specific fields that type carries.
type Event struct {
	Version VersionInfo
	Prefix  string // identifier prefix text (the "i" field)
	Sn      uint64
	Type    Type

	Threshold      int             // kt, key events only
	Keys           []prefix.Prefix // k
	NextKeysDigest prefix.Prefix   // n

	WitnessThreshold int             // wt
	Witnesses        []prefix.Prefix // w, icp/dip only
	WitnessesRemoved []prefix.Prefix // wr, rot/drt only
	WitnessesAdded   []prefix.Prefix // wa, rot/drt only

	ConfigTraits []string // c, icp/dip only

	Prior prefix.Prefix // p, rot/ixn/drt

	Seals     []Seal         // a
	Delegator *DelegatorSeal // da, dip/drt only

	// Receipt-only fields (Rct, Vrc): Prefix/Sn above name the receipting
	// party; TargetPrefix/TargetSn/TargetDigest name the event receipted.
	TargetPrefix string
	TargetSn     uint64
	TargetDigest prefix.Prefix
}

func parsePrefixList(ss []string) ([]prefix.Prefix, error) {
	out := make([]prefix.Prefix, len(ss))
	for i, s := range ss {
		p, err := prefix.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func encodePrefixList(ps []prefix.Prefix) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Text()
	}
	return out
}

func parseSn(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, kerr.Malformed("invalid sequence number %q: %v", s, err)
	}
	return n, nil
}

func formatSn(n uint64) string {
	return strconv.FormatUint(n, 16)
}
