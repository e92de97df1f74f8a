package derive

import (
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
)

// Digest hashes data with the algorithm alg selects.
func Digest(alg Algorithm, data []byte) ([]byte, error) {
	switch alg {
	case AlgBlake3_256:
		sum := blake3.Sum256(data)
		return sum[:], nil
	case AlgSHA3_256:
		h := sha3.New256()
		h.Write(data)
		return h.Sum(nil), nil
	default:
		return nil, kerr.Crypto("digest", kerr.Malformed("algorithm is not a digest algorithm"))
	}
}

// DigestCode hashes data with the digest algorithm code selects and returns
// the result encoded as CESR text carrying that code.
func DigestCode(code string, data []byte) (string, error) {
	info, err := Lookup(code)
	if err != nil {
		return "", err
	}
	if info.Class != ClassSelfAddressing {
		return "", kerr.Crypto("digest", kerr.Malformed("code %s is not a digest code", code))
	}
	raw, err := Digest(info.Algorithm, data)
	if err != nil {
		return "", err
	}
	return EncodeRaw(code, raw), nil
}
