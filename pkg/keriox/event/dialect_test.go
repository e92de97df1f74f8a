package event

import (
	"testing"

	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
)

func sampleIcp(t *testing.T, dialect Dialect) *Event {
	t.Helper()
	key, err := prefix.New(derive.ClassBasic, derive.AlgEd25519, make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}
	return &Event{
		Version:   VersionInfo{Major: 1, Minor: 0, Dialect: dialect},
		Prefix:    key.Text(),
		Sn:        0,
		Type:      TypeIcp,
		Threshold: 1,
		Keys:      []prefix.Prefix{key},
	}
}

func TestEncodeDecodeRoundTripAllDialects(t *testing.T) {
	for _, dialect := range []Dialect{DialectJSON, DialectCBOR, DialectMGPK} {
		e := sampleIcp(t, dialect)
		raw, err := e.Encode()
		if err != nil {
			t.Fatalf("%s encode: %v", dialect, err)
		}
		got, consumed, rest, err := Decode(dialect, raw)
		if err != nil {
			t.Fatalf("%s decode: %v", dialect, err)
		}
		if consumed != len(raw) {
			t.Fatalf("%s: consumed %d of %d bytes", dialect, consumed, len(raw))
		}
		if len(rest) != 0 {
			t.Fatalf("%s: unexpected leftover bytes", dialect)
		}
		if got.Prefix != e.Prefix || got.Sn != e.Sn || got.Type != e.Type || got.Threshold != e.Threshold {
			t.Fatalf("%s: round trip mismatch: got %+v", dialect, got)
		}
		if len(got.Keys) != 1 || !got.Keys[0].Equal(e.Keys[0]) {
			t.Fatalf("%s: key round trip mismatch", dialect)
		}
	}
}

func TestDecodeRejectsDialectMismatch(t *testing.T) {
	e := sampleIcp(t, DialectJSON)
	raw, err := e.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Decode(DialectCBOR, raw); err == nil {
		t.Fatal("expected a dialect mismatch error")
	}
}

func TestDecodeRejectsTruncatedFrame(t *testing.T) {
	e := sampleIcp(t, DialectJSON)
	raw, err := e.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Decode(DialectJSON, raw[:len(raw)-5]); err == nil {
		t.Fatal("expected an error decoding a truncated frame")
	}
}
