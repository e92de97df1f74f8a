package keymgr

import (
	"testing"

	"github.com/cvsouth/keri-go/pkg/keriox/derive"
)

func TestDeriveFromSeedDeterministic(t *testing.T) {
	a, err := DeriveFromSeed([]byte("same seed"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := DeriveFromSeed([]byte("same seed"))
	if err != nil {
		t.Fatal(err)
	}
	pa, _ := a.CurrentPublicKey()
	pb, _ := b.CurrentPublicKey()
	if !pa.Equal(pb) {
		t.Fatal("same seed produced different current keys")
	}
}

func TestDeriveFromSeedRejectsEmpty(t *testing.T) {
	if _, err := DeriveFromSeed(nil); err == nil {
		t.Fatal("expected an error for an empty seed")
	}
}

func TestRotateAdvancesToCommittedNextKey(t *testing.T) {
	km, err := DeriveFromSeed([]byte("rotate me"))
	if err != nil {
		t.Fatal(err)
	}
	nextBefore, err := km.NextPublicKey()
	if err != nil {
		t.Fatal(err)
	}
	rotated, err := km.Rotate()
	if err != nil {
		t.Fatal(err)
	}
	curAfter, err := rotated.CurrentPublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if !nextBefore.Equal(curAfter) {
		t.Fatal("rotation did not advance to the previously committed next key")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	km, err := DeriveFromSeed([]byte("sign me"))
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("hello keri")
	sig, err := km.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := km.CurrentPublicKey()
	if err != nil {
		t.Fatal(err)
	}
	ok, err := derive.Verify(derive.AlgEd25519, pub.Raw, msg, sig)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("signature did not verify under the manager's own current public key")
	}
}
