package event

import (
	"encoding/json"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/shamaton/msgpack/v2"

	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
)

// cborEncMode writes struct fields in declaration order, so "v" comes first
// and the version string sits within the window Decode searches.
var cborEncMode = func() cbor.EncMode {
	m, err := cbor.EncOptions{}.EncMode()
	if err != nil {
		panic(err)
	}
	return m
}()

// marshalWire serializes w under dialect.
func marshalWire(dialect Dialect, w wireEvent) ([]byte, error) {
	switch dialect {
	case DialectJSON:
		return json.Marshal(w)
	case DialectCBOR:
		return cborEncMode.Marshal(w)
	case DialectMGPK:
		return msgpack.Marshal(w)
	default:
		return nil, kerr.Malformed("unknown dialect %q", dialect)
	}
}

func unmarshalWire(dialect Dialect, data []byte) (wireEvent, error) {
	var w wireEvent
	var err error
	switch dialect {
	case DialectJSON:
		err = json.Unmarshal(data, &w)
	case DialectCBOR:
		err = cbor.Unmarshal(data, &w)
	case DialectMGPK:
		err = msgpack.Unmarshal(data, &w)
	default:
		return wireEvent{}, kerr.Malformed("unknown dialect %q", dialect)
	}
	if err != nil {
		return wireEvent{}, err
	}
	return w, nil
}

// Decode parses one frame of the given dialect from the front of data. It
// returns the parsed event, the exact number of bytes the frame occupied
// (per the version string's declared size), and the rest of data.
func Decode(dialect Dialect, data []byte) (ev *Event, consumed int, rest []byte, err error) {
	if len(data) < versionStringLen {
		return nil, 0, nil, kerr.Malformed("frame shorter than version string")
	}
	// the version string's own bytes are identical across dialects: find it
	// textually even inside a binary-encoded frame, since CBOR/MGPK both
	// encode short text values as their literal UTF-8 bytes.
	idx := strings.Index(string(data[:min(len(data), 64)]), "KERI")
	if idx < 0 {
		return nil, 0, nil, kerr.Malformed("no version string found")
	}
	if idx+versionStringLen > len(data) {
		return nil, 0, nil, kerr.Malformed("truncated version string")
	}
	vs, err := ParseVersionString(string(data[idx : idx+versionStringLen]))
	if err != nil {
		return nil, 0, nil, err
	}
	if vs.Dialect != dialect {
		return nil, 0, nil, kerr.Malformed("dialect mismatch: version string says %s", vs.Dialect)
	}
	if vs.Size > len(data) {
		return nil, 0, nil, kerr.Malformed("frame size %d exceeds available data (%d bytes)", vs.Size, len(data))
	}
	frame := data[:vs.Size]
	w, err := unmarshalWire(dialect, frame)
	if err != nil {
		return nil, 0, nil, kerr.Malformed("%s decode: %v", dialect, err)
	}
	e, err := eventFromWire(w, vs)
	if err != nil {
		return nil, 0, nil, err
	}
	return e, vs.Size, data[vs.Size:], nil
}

// Encode renders e as a complete self-describing frame under e.Version's
// dialect, computing and patching in the correct size field.
func (e *Event) Encode() ([]byte, error) {
	w, err := e.toWire()
	if err != nil {
		return nil, err
	}
	v := e.Version
	v.Size = 0
	w.V = v.String()
	probe, err := marshalWire(v.Dialect, w)
	if err != nil {
		return nil, err
	}
	v.Size = len(probe)
	w.V = v.String()
	final, err := marshalWire(v.Dialect, w)
	if err != nil {
		return nil, err
	}
	if len(final) != v.Size {
		return nil, kerr.Malformed("frame size is unstable across version-string patch (%d vs %d)", len(final), v.Size)
	}
	e.Version = v
	return final, nil
}



// SAID computes the self-addressing identifier digest for e: the digest,
// using code's algorithm, of e's own encoding with the "i" field replaced
// by a placeholder of the same length as the final prefix text. Used both
// to derive a self-addressing inception identifier and to verify one.
func (e *Event) SAID(code string) ([]byte, error) {
	ph, err := prefix.PlaceholderText(code)
	if err != nil {
		return nil, err
	}
	orig := e.Prefix
	e.Prefix = ph
	data, encErr := e.Encode()
	e.Prefix = orig
	if encErr != nil {
		return nil, encErr
	}
	info, err := derive.Lookup(code)
	if err != nil {
		return nil, err
	}
	return derive.Digest(info.Algorithm, data)
}
