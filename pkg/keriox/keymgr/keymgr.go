// Package keymgr defines the external key manager interface (§6) and a
// deterministic, seed-derived implementation grounded in the reference
// implementation's CryptoBox::derive_from_seed test fixture: useful for
// reproducible tests and demos, never for production key custody.
package keymgr

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/cvsouth/keri-go/pkg/keriox/derive"
	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
	"github.com/cvsouth/keri-go/pkg/keriox/prefix"
)

// KeyManager signs on an identifier's behalf and exposes the current and
// committed-next public keys, rotating to the next key pair on demand.
type KeyManager interface {
	Sign(msg []byte) ([]byte, error)
	CurrentPublicKey() (prefix.Prefix, error)
	NextPublicKey() (prefix.Prefix, error)
	Rotate() (KeyManager, error)
}

// Deterministic is a KeyManager whose key pairs are derived from a seed by
// repeated hashing, so that a given seed always produces the same sequence
// of keys across rotations.
type Deterministic struct {
	seed    []byte
	gen     int
	priv    []byte
	pub     []byte
	nextPriv []byte
	nextPub  []byte
}

// DeriveFromSeed builds the first Deterministic key manager in a seed's
// rotation sequence: its current key pair comes from hashing seed once,
// and its next key pair from hashing seed twice.
func DeriveFromSeed(seed []byte) (*Deterministic, error) {
	if len(seed) == 0 {
		return nil, kerr.Crypto("derive-from-seed", fmt.Errorf("seed must not be empty"))
	}
	return newGeneration(seed, 0)
}

func newGeneration(seed []byte, gen int) (*Deterministic, error) {
	curSeed := generationSeed(seed, gen)
	nextSeed := generationSeed(seed, gen+1)
	pub, priv := derive.GenerateEd25519(curSeed)
	nextPub, nextPriv := derive.GenerateEd25519(nextSeed)
	return &Deterministic{
		seed: seed, gen: gen,
		priv: priv, pub: pub,
		nextPriv: nextPriv, nextPub: nextPub,
	}, nil
}

// generationSeed derives the 32-byte Ed25519 seed for rotation generation
// gen from the root seed, by hashing the root seed with SHA3-256 and then
// re-hashing the result gen more times; this is the same "hash forward to
// get the next secret" shape the reference implementation uses to derive
// successive rotation keys from one root secret.
func generationSeed(seed []byte, gen int) []byte {
	h := sha3.New256()
	h.Write(seed)
	for i := 0; i < gen; i++ {
		sum := h.Sum(nil)
		h.Reset()
		h.Write(sum)
	}
	sum := h.Sum(nil)
	return sum[:32]
}

func (d *Deterministic) Sign(msg []byte) ([]byte, error) {
	return derive.Sign(derive.AlgEd25519Sha512, d.priv, msg)
}

func (d *Deterministic) CurrentPublicKey() (prefix.Prefix, error) {
	return prefix.New(derive.ClassBasic, derive.AlgEd25519, d.pub)
}

func (d *Deterministic) NextPublicKey() (prefix.Prefix, error) {
	return prefix.New(derive.ClassBasic, derive.AlgEd25519, d.nextPub)
}

func (d *Deterministic) Rotate() (KeyManager, error) {
	return newGeneration(d.seed, d.gen+1)
}
