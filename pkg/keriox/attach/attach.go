// Package attach implements the attachment parser (§4.3): the
// signature-count code that introduces a group of attached signatures or
// receipt couplets immediately following a message frame.
package attach

import (
	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/event"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
)

const sigCountPrefix = "-A"
const sigCountLen = 4 // "-A" + 2 base64 digits

// Couplet is a (basic prefix, self-signing prefix) pair: the witness's
// identifying key and its signature, as carried by a nontransferable
// receipt.
type Couplet struct {
	Witness   prefix.Prefix
	Signature prefix.Prefix
}

// ParseSignatureCount parses the "-A" + 2-character base64 integer count
// code from the front of s, returning the count (0..4095) and the rest of
// s.
func ParseSignatureCount(s string) (count int, rest string, err error) {
	if len(s) < sigCountLen || s[:2] != sigCountPrefix {
		return 0, "", kerr.Malformed("missing signature-count code")
	}
	n, err := derive.B64ToIndex(s[2:sigCountLen])
	if err != nil {
		return 0, "", err
	}
	return n, s[sigCountLen:], nil
}

// ParseAttachedSignatures parses count indexed attached signatures from the
// front of s (used for key events and transferable receipts), returning
// them and the rest of s.
func ParseAttachedSignatures(s string, count int) ([]prefix.AttachedSignature, string, error) {
	sigs := make([]prefix.AttachedSignature, 0, count)
	for i := 0; i < count; i++ {
		sig, consumed, err := parseOneSignature(s)
		if err != nil {
			return nil, "", err
		}
		sigs = append(sigs, sig)
		s = s[consumed:]
	}
	return sigs, s, nil
}

func parseOneSignature(s string) (prefix.AttachedSignature, int, error) {
	info, err := derive.LookupSig(s)
	if err != nil {
		return prefix.AttachedSignature{}, 0, err
	}
	codeLen := info.CodeLen()
	if len(s) < codeLen {
		return prefix.AttachedSignature{}, 0, kerr.Malformed("truncated attached signature")
	}
	total := codeLen + derive.DataLen(s[:codeLen], info.RawLen)
	if len(s) < total {
		return prefix.AttachedSignature{}, 0, kerr.Malformed("truncated attached signature")
	}
	sig, err := prefix.ParseAttachedSignature(s[:total])
	if err != nil {
		return prefix.AttachedSignature{}, 0, err
	}
	return sig, total, nil
}

// ParseCouplets parses count (witness-prefix, signature-prefix) couplets
// from the front of s (used for nontransferable receipts), returning them
// and the rest of s.
func ParseCouplets(s string, count int) ([]Couplet, string, error) {
	couplets := make([]Couplet, 0, count)
	for i := 0; i < count; i++ {
		w, consumed, err := parseOnePrefix(s)
		if err != nil {
			return nil, "", err
		}
		s = s[consumed:]
		sig, consumed2, err := parseOnePrefix(s)
		if err != nil {
			return nil, "", err
		}
		s = s[consumed2:]
		couplets = append(couplets, Couplet{Witness: w, Signature: sig})
	}
	return couplets, s, nil
}

func parseOnePrefix(s string) (prefix.Prefix, int, error) {
	info, err := derive.Lookup(s)
	if err != nil {
		return prefix.Prefix{}, 0, err
	}
	total := info.CodeLen() + derive.DataLen(info.Code, info.RawLen)
	if len(s) < total {
		return prefix.Prefix{}, 0, kerr.Malformed("truncated prefix in attachment")
	}
	p, err := prefix.Parse(s[:total])
	if err != nil {
		return prefix.Prefix{}, 0, err
	}
	return p, total, nil
}

// Group is the fully parsed attachment that follows one message frame: a
// list of attached signatures for key events and transferable receipts, or
// a list of couplets for nontransferable receipts, depending on the
// frame's event type.
type Group struct {
	Signatures []prefix.AttachedSignature
	Couplets   []Couplet
}

// Parse reads one attachment group from the front of s, dispatching on the
// frame's event type to decide between attached signatures and couplets.
func Parse(s string, t event.Type) (Group, string, error) {
	count, rest, err := ParseSignatureCount(s)
	if err != nil {
		return Group{}, "", err
	}
	if t == event.TypeRct {
		couplets, rest2, err := ParseCouplets(rest, count)
		if err != nil {
			return Group{}, "", err
		}
		return Group{Couplets: couplets}, rest2, nil
	}
	sigs, rest2, err := ParseAttachedSignatures(rest, count)
	if err != nil {
		return Group{}, "", err
	}
	return Group{Signatures: sigs}, rest2, nil
}
