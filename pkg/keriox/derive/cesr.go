package derive

import (
	"encoding/base64"
	"strings"

	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
)

// b64Alphabet is the same alphabet as base64.RawURLEncoding, fixed here so
// that index digits can be mapped to integer values without round-tripping
// through the stdlib codec for a single character.
const b64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var b64Value [256]int8

func init() {
	for i := range b64Value {
		b64Value[i] = -1
	}
	for i := 0; i < len(b64Alphabet); i++ {
		b64Value[b64Alphabet[i]] = int8(i)
	}
}

// padBytesNeeded returns the minimal number of leading zero bytes that must
// be prepended to a rawLen-byte value so that, once a codeLen-character
// code is spliced onto the front of its base64 text, the total text length
// stays a multiple of 4 (i.e. no '=' padding is ever needed on the wire).
//
// The code's characters take the place of the leading base64 digits that
// would otherwise just encode those zero bytes, so padBytesNeeded also
// requires that the zero prefix hold at least as many bits as the code
// spends (codeLen*6): otherwise the code would be overwriting bits that
// belong to the real value.
func padBytesNeeded(codeLen, rawLen int) int {
	for pad := 0; ; pad++ {
		if (pad+rawLen)%3 == 0 && pad*8 >= codeLen*6 {
			return pad
		}
	}
}

// EncodeRaw renders raw as CESR text: code, followed by the base64 text of
// raw with just enough zero-byte left padding spliced out to keep the
// result a clean multiple of 4 characters.
func EncodeRaw(code string, raw []byte) string {
	pad := padBytesNeeded(len(code), len(raw))
	padded := make([]byte, pad+len(raw))
	copy(padded[pad:], raw)
	full := base64.RawURLEncoding.EncodeToString(padded)
	return code + full[len(code):]
}

// DecodeRaw reverses EncodeRaw given the expected raw length (taken from
// the code's table entry).
func DecodeRaw(code string, data string, rawLen int) ([]byte, error) {
	pad := padBytesNeeded(len(code), rawLen)
	full := strings.Repeat("A", len(code)) + data
	padded, err := base64.RawURLEncoding.DecodeString(full)
	if err != nil {
		return nil, kerr.Malformed("invalid base64 in derivation text: %v", err)
	}
	if len(padded) != pad+rawLen {
		return nil, kerr.IncorrectLength(code, rawLen, len(padded)-pad)
	}
	return padded[pad:], nil
}

// DataLen returns the number of base64 characters that follow code when
// rawLen raw bytes are encoded with it.
func DataLen(code string, rawLen int) int {
	pad := padBytesNeeded(len(code), rawLen)
	return (pad+rawLen)/3*4 - len(code)
}

// IndexToB64 renders idx as nChars base64 digits, most significant first,
// using the same big-endian digit convention as the signature-count code.
func IndexToB64(idx int, nChars int) (string, error) {
	max := 1
	for i := 0; i < nChars; i++ {
		max *= 64
	}
	if idx < 0 || idx >= max {
		return "", kerr.Malformed("index %d out of range for %d base64 digits", idx, nChars)
	}
	buf := make([]byte, nChars)
	for i := nChars - 1; i >= 0; i-- {
		buf[i] = b64Alphabet[idx%64]
		idx /= 64
	}
	return string(buf), nil
}

// B64ToIndex decodes a big-endian sequence of base64 digits into an
// integer, the inverse of IndexToB64.
func B64ToIndex(s string) (int, error) {
	idx := 0
	for i := 0; i < len(s); i++ {
		v := b64Value[s[i]]
		if v < 0 {
			return 0, kerr.Malformed("invalid base64 digit %q", s[i])
		}
		idx = idx*64 + int(v)
	}
	return idx, nil
}
