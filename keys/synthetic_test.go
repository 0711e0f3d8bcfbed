package keys

import (
	"encoding/hex"
	"math/big"
	"testing"

	"pgregory.net/rapid"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/bls"
	"xdao.co/blsaddr/puzzles"
)

const (
	syntheticPKHex = "a76017fdce4b8bc04577ce9cd9149b4269e5cc621499df9d24876c14d710fd2d3db233cc5afb92b35ba8b852bc86266d"
	syntheticSKHex = "71902f1d82a02fdcdcf8a029b99685ada3eb2f375fb74894f8aac322ccee5bfb"
	offsetHex      = "503ac2dbeb9ec66fe5184553a12a3cf51ae4b8c5a98d646783c3be32c088f038"
)

func leafKeys(t testing.TB) (*bls.PrivateKey, *bls.PublicKey) {
	t.Helper()
	sk, err := DerivePrivatePath(bls.PrivateKeyFromBigInt(big.NewInt(177)), WalletPath(0))
	if err != nil {
		t.Fatal(err)
	}
	return sk, sk.PublicKey()
}

func TestSyntheticOffset(t *testing.T) {
	_, pk := leafKeys(t)
	off, err := SyntheticOffset(pk, puzzles.DefaultHiddenPuzzleHash())
	if err != nil {
		t.Fatalf("SyntheticOffset: %v", err)
	}
	if got := hex.EncodeToString(off.FillBytes(make([]byte, 32))); got != offsetHex {
		t.Fatalf("offset = %s, want %s", got, offsetHex)
	}
	if off.Sign() < 0 || off.Cmp(bls.GroupOrder()) >= 0 {
		t.Fatal("offset out of range")
	}
}

func TestSyntheticKeys(t *testing.T) {
	sk, pk := leafKeys(t)
	hidden := puzzles.DefaultHiddenPuzzleHash()

	spk, err := SyntheticPublicKey(pk, hidden)
	if err != nil {
		t.Fatalf("SyntheticPublicKey: %v", err)
	}
	if spk.Hex() != syntheticPKHex {
		t.Fatalf("synthetic pk = %s, want %s", spk.Hex(), syntheticPKHex)
	}

	ssk, err := SyntheticPrivateKey(sk, hidden)
	if err != nil {
		t.Fatalf("SyntheticPrivateKey: %v", err)
	}
	if ssk.Hex() != syntheticSKHex {
		t.Fatalf("synthetic sk = %s, want %s", ssk.Hex(), syntheticSKHex)
	}
	if !ssk.PublicKey().Equal(spk) {
		t.Fatal("synthetic private key does not match synthetic public key")
	}
}

func TestSyntheticKeysAgree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "sk")
		hidden := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "hidden")
		sk := bls.PrivateKeyFromBigInt(new(big.Int).SetBytes(seed))

		spk, err := SyntheticPublicKey(sk.PublicKey(), hidden)
		if err != nil {
			t.Fatal(err)
		}
		ssk, err := SyntheticPrivateKey(sk, hidden)
		if err != nil {
			t.Fatal(err)
		}
		if !ssk.PublicKey().Equal(spk) {
			t.Fatalf("mismatch for hidden %x", hidden)
		}
	})
}

func TestSyntheticRejectsBadInput(t *testing.T) {
	sk, pk := leafKeys(t)
	short := make([]byte, 31)
	if _, err := SyntheticOffset(pk, short); !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("SyntheticOffset: expected InvalidKeyMaterial, got %v", err)
	}
	if _, err := SyntheticPublicKey(pk, short); !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("SyntheticPublicKey: expected InvalidKeyMaterial, got %v", err)
	}
	if _, err := SyntheticPrivateKey(sk, short); !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("SyntheticPrivateKey: expected InvalidKeyMaterial, got %v", err)
	}
	if _, err := SyntheticPublicKey(nil, puzzles.DefaultHiddenPuzzleHash()); !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("nil key: expected InvalidKeyMaterial, got %v", err)
	}
}
