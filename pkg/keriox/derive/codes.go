// Package derive implements the derivation-code table and the CESR-style
// text encoding it controls: the mapping between a raw cryptographic value
// (a public key, a digest, a signature) and the short code plus base64 text
// that represents it on the wire.
package derive

import "github.com/cvsouth/keri-go/pkg/keriox/kerr"

// Algorithm identifies a concrete cryptographic primitive a code selects.
type Algorithm int

const (
	AlgEd25519 Algorithm = iota
	AlgBlake3_256
	AlgSHA3_256
	AlgEd25519Sha512
	AlgEd448
)

// Class groups codes by the role their derived value plays.
type Class int

const (
	ClassBasic          Class = iota // a public key, used directly as an identifier or signing key
	ClassSelfAddressing              // a digest that identifies the data it was derived from
	ClassSelfSigning                 // a signature, used as an identifier prefix (nontransferable receipts)
	ClassIndexedSig                  // a signature tagged with the index of the key that produced it
)

// CodeInfo describes one entry of the derivation-code table: the algorithm
// it selects, the class of value it encodes, the exact raw byte length the
// algorithm produces, and (for indexed codes) how many of the code's
// characters are spent on the index rather than the algorithm tag.
type CodeInfo struct {
	Code       string
	Class      Class
	Algorithm  Algorithm
	RawLen     int // exact raw byte length this code requires
	IndexChars int // 0 for non-indexed codes; 1 or 2 for indexed signature codes
}

// CodeLen is the number of characters the code occupies in the encoded
// text, including any index characters.
func (c CodeInfo) CodeLen() int { return len(c.Code) + c.IndexChars }

var codeTable = map[string]CodeInfo{
	"D": {Code: "D", Class: ClassBasic, Algorithm: AlgEd25519, RawLen: 32},
	"E": {Code: "E", Class: ClassSelfAddressing, Algorithm: AlgBlake3_256, RawLen: 32},
	"H": {Code: "H", Class: ClassSelfAddressing, Algorithm: AlgSHA3_256, RawLen: 32},

	"0B": {Code: "0B", Class: ClassSelfSigning, Algorithm: AlgEd25519Sha512, RawLen: 64},
	"0C": {Code: "0C", Class: ClassSelfSigning, Algorithm: AlgEd448, RawLen: 114},

	"A":  {Code: "A", Class: ClassIndexedSig, Algorithm: AlgEd25519Sha512, RawLen: 64, IndexChars: 1},
	"0A": {Code: "0A", Class: ClassIndexedSig, Algorithm: AlgEd448, RawLen: 114, IndexChars: 2},
}

// DefaultSelfAddressing is the digest algorithm code used wherever the
// state machine needs a digest and no other code governs the choice (the
// last-event digest carried in IdentifierState).
const DefaultSelfAddressing = "E"

// Lookup returns the CodeInfo for a non-indexed code (Basic, SelfAddressing
// or SelfSigning), peeking at s to determine whether the code is one or two
// characters wide. The number of characters the code itself occupies is
// the returned info's CodeLen().
func Lookup(s string) (CodeInfo, error) {
	if len(s) == 0 {
		return CodeInfo{}, kerr.Malformed("empty derivation code")
	}
	if s[0] == '0' {
		if len(s) < 2 {
			return CodeInfo{}, kerr.Malformed("truncated extended derivation code %q", s)
		}
		info, ok := codeTable[s[:2]]
		if !ok || info.Class == ClassIndexedSig {
			return CodeInfo{}, kerr.UnknownCode(s[:2])
		}
		return info, nil
	}
	info, ok := codeTable[s[:1]]
	if !ok || info.Class == ClassIndexedSig {
		return CodeInfo{}, kerr.UnknownCode(s[:1])
	}
	return info, nil
}

// LookupSig returns the CodeInfo for an indexed signature code, peeking at s
// to distinguish the short (1 algorithm char + 1 index char) and extended
// (2 + 2) forms.
func LookupSig(s string) (CodeInfo, error) {
	if len(s) == 0 {
		return CodeInfo{}, kerr.Malformed("empty signature code")
	}
	if s[0] == '0' {
		if len(s) < 2 {
			return CodeInfo{}, kerr.Malformed("truncated extended signature code %q", s)
		}
		info, ok := codeTable[s[:2]]
		if !ok || info.Class != ClassIndexedSig {
			return CodeInfo{}, kerr.UnknownCode(s[:2])
		}
		return info, nil
	}
	info, ok := codeTable[s[:1]]
	if !ok || info.Class != ClassIndexedSig {
		return CodeInfo{}, kerr.UnknownCode(s[:1])
	}
	return info, nil
}

// ForClass returns the code table entry (indexed or not) that selects
// algorithm alg within class cls. Used when building new values (e.g. choosing the
// code a freshly computed digest should carry).
func ForClass(cls Class, alg Algorithm) (CodeInfo, bool) {
	for _, info := range codeTable {
		if info.Class == cls && info.Algorithm == alg {
			return info, true
		}
	}
	return CodeInfo{}, false
}
