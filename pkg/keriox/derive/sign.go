package derive

import (
	"crypto/ed25519"

	"filippo.io/edwards25519"

	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
)

// ValidatePoint rejects public key bytes that do not decode to a valid
// point on the curve before trusting them as a Basic identifier's key.
func ValidatePoint(raw []byte) error {
	if len(raw) != ed25519.PublicKeySize {
		return kerr.Crypto("validate-point", kerr.IncorrectLength("ed25519-point", ed25519.PublicKeySize, len(raw)))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return kerr.Crypto("validate-point", err)
	}
	return nil
}

// Sign produces a raw signature over msg under alg. AlgEd25519 (a Basic
// identifier key) and AlgEd25519Sha512 (the code an attached signature
// carries) name the same curve and the same signing routine: Ed25519
// hashes its message with SHA-512 internally regardless of which
// derivation-code table the raw bytes end up tagged with.
func Sign(alg Algorithm, priv, msg []byte) ([]byte, error) {
	switch alg {
	case AlgEd25519, AlgEd25519Sha512:
		if len(priv) != ed25519.PrivateKeySize {
			return nil, kerr.Crypto("sign", kerr.IncorrectLength("ed25519-private-key", ed25519.PrivateKeySize, len(priv)))
		}
		return ed25519.Sign(ed25519.PrivateKey(priv), msg), nil
	case AlgEd448:
		return nil, kerr.Crypto("sign", kerr.Malformed("ed448 signing is not supported"))
	default:
		return nil, kerr.Crypto("sign", kerr.Malformed("algorithm is not a signing algorithm"))
	}
}

// Verify checks a raw signature over msg under the public key pub, using
// algorithm alg.
func Verify(alg Algorithm, pub, msg, sig []byte) (bool, error) {
	switch alg {
	case AlgEd25519, AlgEd25519Sha512:
		if err := ValidatePoint(pub); err != nil {
			return false, err
		}
		return ed25519.Verify(ed25519.PublicKey(pub), msg, sig), nil
	case AlgEd448:
		return false, kerr.Crypto("verify", kerr.Malformed("ed448 verification is not supported"))
	default:
		return false, kerr.Crypto("verify", kerr.Malformed("algorithm is not a signing algorithm"))
	}
}

// GenerateEd25519 produces a fresh Ed25519 key pair, used by the
// deterministic key manager to derive successive signing keys from seed
// material.
func GenerateEd25519(seed []byte) (pub, priv []byte) {
	key := ed25519.NewKeyFromSeed(seed)
	return []byte(key.Public().(ed25519.PublicKey)), []byte(key)
}
