package event

import (
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
)

// wireSeal is the flat, dialect-agnostic shape a Seal or DelegatorSeal
// takes on the wire: only the fields a particular seal kind uses are
// populated, the rest are omitted.
type wireSeal struct {
	I  string `json:"i,omitempty" cbor:"i,omitempty" msgpack:"i,omitempty"`
	S  string `json:"s,omitempty" cbor:"s,omitempty" msgpack:"s,omitempty"`
	T  string `json:"t,omitempty" cbor:"t,omitempty" msgpack:"t,omitempty"`
	P  string `json:"p,omitempty" cbor:"p,omitempty" msgpack:"p,omitempty"`
	D  string `json:"d,omitempty" cbor:"d,omitempty" msgpack:"d,omitempty"`
}

func sealToWire(s Seal) wireSeal {
	return wireSeal{I: s.I, S: formatSn(s.S), T: string(s.EventType), P: s.Prior.Text(), D: s.Dig.Text()}
}

func sealFromWire(w wireSeal) (Seal, error) {
	var s Seal
	s.I = w.I
	var err error
	if s.S, err = parseSn(w.S); err != nil {
		return Seal{}, err
	}
	s.EventType = Type(w.T)
	if w.P != "" {
		if s.Prior, err = prefix.Parse(w.P); err != nil {
			return Seal{}, err
		}
	}
	if w.D != "" {
		if s.Dig, err = prefix.Parse(w.D); err != nil {
			return Seal{}, err
		}
	}
	return s, nil
}

func delegatorToWire(d *DelegatorSeal) *wireSeal {
	if d == nil {
		return nil
	}
	w := wireSeal{I: d.I, S: formatSn(d.S), T: string(d.EventType), P: d.Prior.Text()}
	return &w
}

func delegatorFromWire(w *wireSeal) (*DelegatorSeal, error) {
	if w == nil {
		return nil, nil
	}
	d := &DelegatorSeal{I: w.I, EventType: Type(w.T)}
	var err error
	if d.S, err = parseSn(w.S); err != nil {
		return nil, err
	}
	if w.P != "" {
		if d.Prior, err = prefix.Parse(w.P); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// wireEvent is the flat shape every event type shares on the wire: the
// common envelope plus every type-specific field, present or not per type.
type wireEvent struct {
	V string `json:"v" cbor:"v" msgpack:"v"`
	I string `json:"i" cbor:"i" msgpack:"i"`
	S string `json:"s" cbor:"s" msgpack:"s"`
	T string `json:"t" cbor:"t" msgpack:"t"`

	KT string   `json:"kt,omitempty" cbor:"kt,omitempty" msgpack:"kt,omitempty"`
	K  []string `json:"k,omitempty" cbor:"k,omitempty" msgpack:"k,omitempty"`
	N  string   `json:"n,omitempty" cbor:"n,omitempty" msgpack:"n,omitempty"`

	WT string   `json:"wt,omitempty" cbor:"wt,omitempty" msgpack:"wt,omitempty"`
	W  []string `json:"w,omitempty" cbor:"w,omitempty" msgpack:"w,omitempty"`
	WR []string `json:"wr,omitempty" cbor:"wr,omitempty" msgpack:"wr,omitempty"`
	WA []string `json:"wa,omitempty" cbor:"wa,omitempty" msgpack:"wa,omitempty"`

	C []string `json:"c,omitempty" cbor:"c,omitempty" msgpack:"c,omitempty"`

	P string `json:"p,omitempty" cbor:"p,omitempty" msgpack:"p,omitempty"`

	A  []wireSeal `json:"a,omitempty" cbor:"a,omitempty" msgpack:"a,omitempty"`
	DA *wireSeal  `json:"da,omitempty" cbor:"da,omitempty" msgpack:"da,omitempty"`

	RI string `json:"ri,omitempty" cbor:"ri,omitempty" msgpack:"ri,omitempty"`
	RS string `json:"rs,omitempty" cbor:"rs,omitempty" msgpack:"rs,omitempty"`
	RD string `json:"rd,omitempty" cbor:"rd,omitempty" msgpack:"rd,omitempty"`
}

func (e *Event) toWire() (wireEvent, error) {
	w := wireEvent{
		V: e.Version.String(),
		I: e.Prefix,
		S: formatSn(e.Sn),
		T: string(e.Type),
		P: e.Prior.Text(),
	}
	if e.Type.IsKeyEvent() {
		w.KT = formatSn(uint64(e.Threshold))
		w.K = encodePrefixList(e.Keys)
		w.N = e.NextKeysDigest.Text()
		w.WT = formatSn(uint64(e.WitnessThreshold))
		w.C = e.ConfigTraits
		switch e.Type {
		case TypeIcp, TypeDip:
			w.W = encodePrefixList(e.Witnesses)
		case TypeRot, TypeDrt:
			w.WR = encodePrefixList(e.WitnessesRemoved)
			w.WA = encodePrefixList(e.WitnessesAdded)
		}
		for _, s := range e.Seals {
			w.A = append(w.A, sealToWire(s))
		}
		w.DA = delegatorToWire(e.Delegator)
	} else {
		w.I = e.Prefix
		w.RI = e.TargetPrefix
		w.RS = formatSn(e.TargetSn)
		w.RD = e.TargetDigest.Text()
	}
	return w, nil
}

func eventFromWire(w wireEvent, v VersionInfo) (*Event, error) {
	e := &Event{Version: v, Prefix: w.I, Type: Type(w.T)}
	var err error
	if e.Sn, err = parseSn(w.S); err != nil {
		return nil, err
	}
	if w.P != "" {
		if e.Prior, err = prefix.Parse(w.P); err != nil {
			return nil, err
		}
	}
	if e.Type.IsKeyEvent() {
		if w.KT != "" {
			n, err := parseInt(w.KT)
			if err != nil {
				return nil, kerr.Malformed("invalid threshold %q: %v", w.KT, err)
			}
			e.Threshold = n
		}
		if e.Keys, err = parsePrefixList(w.K); err != nil {
			return nil, err
		}
		if w.N != "" {
			if e.NextKeysDigest, err = prefix.Parse(w.N); err != nil {
				return nil, err
			}
		}
		if w.WT != "" {
			n, err := parseInt(w.WT)
			if err != nil {
				return nil, kerr.Malformed("invalid witness threshold %q: %v", w.WT, err)
			}
			e.WitnessThreshold = n
		}
		e.ConfigTraits = w.C
		switch e.Type {
		case TypeIcp, TypeDip:
			if e.Witnesses, err = parsePrefixList(w.W); err != nil {
				return nil, err
			}
		case TypeRot, TypeDrt:
			if e.WitnessesRemoved, err = parsePrefixList(w.WR); err != nil {
				return nil, err
			}
			if e.WitnessesAdded, err = parsePrefixList(w.WA); err != nil {
				return nil, err
			}
		}
		for _, ws := range w.A {
			s, err := sealFromWire(ws)
			if err != nil {
				return nil, err
			}
			e.Seals = append(e.Seals, s)
		}
		if e.Delegator, err = delegatorFromWire(w.DA); err != nil {
			return nil, err
		}
	} else {
		e.TargetPrefix = w.RI
		if e.TargetSn, err = parseSn(w.RS); err != nil {
			return nil, err
		}
		if w.RD != "" {
			if e.TargetDigest, err = prefix.Parse(w.RD); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func parseInt(s string) (int, error) {
	n, err := parseSn(s)
	return int(n), err
}
