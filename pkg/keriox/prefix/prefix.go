// Package prefix implements the Basic, SelfAddressing and SelfSigning
// prefix codec: the derivation-code-tagged text that identifies a key, a
// digest, or (for nontransferable receipts) a signature.
package prefix

import (
	"bytes"
	"strings"

	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
)

// Prefix is a derivation-code-tagged value: a public key (Basic), a digest
// (SelfAddressing) or a signature reused as an identifier (SelfSigning).
type Prefix struct {
	Code derive.CodeInfo
	Raw  []byte
}

// Zero reports whether p is the unset Prefix, used where a field such as
// NextKeysDigest is optional.
func (p Prefix) Zero() bool { return p.Code.Code == "" && len(p.Raw) == 0 }

// Text renders p as CESR text.
func (p Prefix) Text() string {
	if p.Zero() {
		return ""
	}
	return derive.EncodeRaw(p.Code.Code, p.Raw)
}

// Equal reports whether two prefixes carry the same code and raw bytes.
func (p Prefix) Equal(o Prefix) bool {
	return p.Code.Code == o.Code.Code && bytes.Equal(p.Raw, o.Raw)
}

// Parse decodes s (which must be consumed in full) as a Basic,
// SelfAddressing or SelfSigning prefix.
func Parse(s string) (Prefix, error) {
	if s == "" {
		return Prefix{}, nil
	}
	info, err := derive.Lookup(s)
	if err != nil {
		return Prefix{}, err
	}
	codeLen := info.CodeLen()
	if len(s) < codeLen {
		return Prefix{}, kerr.Malformed("truncated prefix %q", s)
	}
	data := s[codeLen:]
	raw, err := derive.DecodeRaw(info.Code, data, info.RawLen)
	if err != nil {
		return Prefix{}, err
	}
	return Prefix{Code: info, Raw: raw}, nil
}

// New builds a Prefix directly from a class, an algorithm and a raw value,
// tagging it with the code table entry for that class and algorithm.
func New(cls derive.Class, alg derive.Algorithm, raw []byte) (Prefix, error) {
	info, ok := derive.ForClass(cls, alg)
	if !ok {
		return Prefix{}, kerr.Malformed("no derivation code for class %v algorithm %v", cls, alg)
	}
	if len(raw) != info.RawLen {
		return Prefix{}, kerr.IncorrectLength(info.Code, info.RawLen, len(raw))
	}
	return Prefix{Code: info, Raw: raw}, nil
}

// Digest computes a SelfAddressing prefix over data using code's algorithm.
func Digest(code string, data []byte) (Prefix, error) {
	info, err := derive.Lookup(code)
	if err != nil {
		return Prefix{}, err
	}
	if info.Class != derive.ClassSelfAddressing {
		return Prefix{}, kerr.Malformed("code %s is not a self-addressing code", code)
	}
	raw, err := derive.Digest(info.Algorithm, data)
	if err != nil {
		return Prefix{}, err
	}
	return Prefix{Code: info, Raw: raw}, nil
}

// PlaceholderText returns a run of '#' characters the same length as the
// final encoded text for a self-addressing prefix with the given code,
// used to stand in for the not-yet-known digest while computing a
// self-addressing identifier's own commitment.
func PlaceholderText(code string) (string, error) {
	info, err := derive.Lookup(code)
	if err != nil {
		return "", err
	}
	if info.Class != derive.ClassSelfAddressing {
		return "", kerr.Malformed("code %s is not a self-addressing code", code)
	}
	return strings.Repeat("#", info.CodeLen()+derive.DataLen(info.Code, info.RawLen)), nil
}

// AttachedSignature is a signature tagged with the index of the key (in
// the signer's current key list) that produced it.
type AttachedSignature struct {
	Code  derive.CodeInfo
	Index int
	Raw   []byte
}

// Text renders the attached signature as CESR text: an algorithm code,
// then the index encoded as base64 digits, then the signature data.
func (s AttachedSignature) Text() (string, error) {
	idxChars, err := derive.IndexToB64(s.Index, s.Code.IndexChars)
	if err != nil {
		return "", err
	}
	return derive.EncodeRaw(s.Code.Code+idxChars, s.Raw), nil
}

// ParseAttachedSignature decodes s (which must be consumed in full) as one
// indexed attached signature.
func ParseAttachedSignature(s string) (AttachedSignature, error) {
	info, err := derive.LookupSig(s)
	if err != nil {
		return AttachedSignature{}, err
	}
	algLen := len(info.Code)
	if len(s) < algLen+info.IndexChars {
		return AttachedSignature{}, kerr.Malformed("truncated signature code %q", s)
	}
	idx, err := derive.B64ToIndex(s[algLen : algLen+info.IndexChars])
	if err != nil {
		return AttachedSignature{}, err
	}
	fullCode := s[:algLen+info.IndexChars]
	data := s[algLen+info.IndexChars:]
	raw, err := derive.DecodeRaw(fullCode, data, info.RawLen)
	if err != nil {
		return AttachedSignature{}, err
	}
	return AttachedSignature{Code: info, Index: idx, Raw: raw}, nil
}
