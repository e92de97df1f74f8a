// Package kerr defines the error taxonomy shared across the keriox packages.
//
// Errors fall into a small number of kinds so that callers of the stream
// validator can branch on failure class (malformed input vs. a semantic
// violation of the key-event state machine) without string matching.
package kerr

import (
	"errors"
	"fmt"
)

// MalformedFrameError reports that a byte stream could not be parsed as a
// version string, a message frame, or an attachment group.
type MalformedFrameError struct {
	Reason string
}

func (e *MalformedFrameError) Error() string { return "malformed frame: " + e.Reason }

func Malformed(format string, args ...any) error {
	return &MalformedFrameError{Reason: fmt.Sprintf(format, args...)}
}

// UnknownDerivationCodeError reports a derivation code not present in the
// code table.
type UnknownDerivationCodeError struct {
	Code string
}

func (e *UnknownDerivationCodeError) Error() string {
	return "unknown derivation code: " + e.Code
}

func UnknownCode(code string) error {
	return &UnknownDerivationCodeError{Code: code}
}

// IncorrectLengthError reports a raw byte slice whose length does not match
// what its derivation code requires.
type IncorrectLengthError struct {
	Code   string
	Want   int
	Got    int
}

func (e *IncorrectLengthError) Error() string {
	return fmt.Sprintf("incorrect length for code %s: want %d bytes, got %d", e.Code, e.Want, e.Got)
}

func IncorrectLength(code string, want, got int) error {
	return &IncorrectLengthError{Code: code, Want: want, Got: got}
}

// Kind enumerates the ways a well-formed event stream can still violate the
// key-event state machine.
type Kind int

const (
	KindOutOfOrder Kind = iota
	KindBadPriorDigest
	KindNextKeysMismatch
	KindWrongIdentifier
	KindThresholdUnmet
	KindMissingDelegator
	KindWitnessSetInvalid
)

func (k Kind) String() string {
	switch k {
	case KindOutOfOrder:
		return "out-of-order"
	case KindBadPriorDigest:
		return "bad-prior-digest"
	case KindNextKeysMismatch:
		return "next-keys-mismatch"
	case KindWrongIdentifier:
		return "wrong-identifier"
	case KindThresholdUnmet:
		return "threshold-unmet"
	case KindMissingDelegator:
		return "missing-delegator"
	case KindWitnessSetInvalid:
		return "witness-set-invalid"
	default:
		return "unknown"
	}
}

// SemanticError reports a violation of the state-machine preconditions: an
// otherwise well-formed event that cannot be applied to the current state.
type SemanticError struct {
	Kind   Kind
	Reason string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func Semantic(kind Kind, format string, args ...any) error {
	return &SemanticError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// SignatureInvalidError reports that a cryptographic signature did not
// verify against the claimed key.
type SignatureInvalidError struct {
	Index int
}

func (e *SignatureInvalidError) Error() string {
	return fmt.Sprintf("signature at index %d did not verify", e.Index)
}

func SignatureInvalid(index int) error {
	return &SignatureInvalidError{Index: index}
}

// LogError wraps a failure returned by the external Log implementation.
type LogError struct {
	Op  string
	Err error
}

func (e *LogError) Error() string { return fmt.Sprintf("log %s: %v", e.Op, e.Err) }
func (e *LogError) Unwrap() error { return e.Err }

func Log(op string, err error) error {
	return &LogError{Op: op, Err: err}
}

// CryptoError wraps a failure from a cryptographic primitive (digest,
// signature, point validation).
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string { return fmt.Sprintf("crypto %s: %v", e.Op, e.Err) }
func (e *CryptoError) Unwrap() error { return e.Err }

func Crypto(op string, err error) error {
	return &CryptoError{Op: op, Err: err}
}

// AsSemantic reports whether err (or something it wraps) is a SemanticError
// of the given kind.
func AsSemantic(err error, kind Kind) bool {
	var se *SemanticError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// AsSignatureInvalid reports whether err (or something it wraps) is a
// SignatureInvalidError.
func AsSignatureInvalid(err error) bool {
	var se *SignatureInvalidError
	return errors.As(err, &se)
}
