package bls

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"testing"

	"pgregory.net/rapid"

	"xdao.co/blsaddr/addrerr"
)

const (
	masterPKHex = "b3dc963ef53ae9b6d83ce417c5d417a9f6cc46beaa5fcf74dc59f190c6e9c513e1f57a124a0ef8b6836e4c8928125500"
	leafPKHex   = "a06897b42cfea1d3499ca8baf60d796228632500262acd4e4fa52754fc692f834cf95cb395ccbb3a72633be6cb02c24a"
	leafSKHex   = "21556c419701696cf7e05ad6186c48b889067671b629e42d74e704f00c656bc3"
	child0PKHex = "a95ca37c9137490dc3ab99875ff4c6bd74e8af2a18bd92349b81f45d7cfe3fa51889cb3f7f88162d7fde28a5a9847251"
	generatorHx = "97f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb"
)

func TestPublicKeyFromScalar(t *testing.T) {
	if got := PublicKeyFromScalar(big.NewInt(1)).Hex(); got != generatorHx {
		t.Fatalf("G = %s, want %s", got, generatorHx)
	}
	if got := PublicKeyFromScalar(big.NewInt(177)).Hex(); got != masterPKHex {
		t.Fatalf("177·G = %s, want %s", got, masterPKHex)
	}
}

func TestPublicKeyFromHex(t *testing.T) {
	pk, err := PublicKeyFromHex("  0x" + masterPKHex + "\n")
	if err != nil {
		t.Fatalf("PublicKeyFromHex: %v", err)
	}
	if pk.Hex() != masterPKHex {
		t.Fatalf("round trip: got %s", pk.Hex())
	}

	bad := []string{
		"",
		"zz",
		masterPKHex[:94],
		masterPKHex + "00",
		// not in the prime-order subgroup.
		"b3dc963ef53ae9b6d83ce417c5d417a9f6cc46beaa5fcf74dc59f190c6e9c513e1f57a124a0ef8b6836e4c8928125501",
		// compression flag cleared.
		"33dc963ef53ae9b6d83ce417c5d417a9f6cc46beaa5fcf74dc59f190c6e9c513e1f57a124a0ef8b6836e4c8928125500",
	}
	for _, s := range bad {
		_, err := PublicKeyFromHex(s)
		if !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
			t.Fatalf("PublicKeyFromHex(%q): expected InvalidKeyMaterial, got %v", s, err)
		}
	}
}

func TestDeriveChildPublicKeyUnhardened(t *testing.T) {
	master, err := PublicKeyFromHex(masterPKHex)
	if err != nil {
		t.Fatal(err)
	}
	if got := DeriveChildPublicKeyUnhardened(master, 0).Hex(); got != child0PKHex {
		t.Fatalf("child 0 = %s, want %s", got, child0PKHex)
	}

	pk := master
	for _, idx := range []uint32{12381, 8444, 2, 0} {
		pk = DeriveChildPublicKeyUnhardened(pk, idx)
	}
	if pk.Hex() != leafPKHex {
		t.Fatalf("leaf = %s, want %s", pk.Hex(), leafPKHex)
	}
}

func TestDeriveChildPrivateKeyUnhardened(t *testing.T) {
	sk := PrivateKeyFromBigInt(big.NewInt(177))
	for _, idx := range []uint32{12381, 8444, 2, 0} {
		sk = DeriveChildPrivateKeyUnhardened(sk, idx)
	}
	if got := hex.EncodeToString(sk.Bytes()); got != leafSKHex {
		t.Fatalf("leaf sk = %s, want %s", got, leafSKHex)
	}
	if sk.PublicKey().Hex() != leafPKHex {
		t.Fatalf("leaf sk does not match leaf pk")
	}
}

func TestPrivatePublicDerivationAgree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "seed")
		idx := rapid.Uint32().Draw(t, "index")
		sk := PrivateKeyFromBigInt(new(big.Int).SetBytes(seed))
		viaPrivate := DeriveChildPrivateKeyUnhardened(sk, idx).PublicKey()
		viaPublic := DeriveChildPublicKeyUnhardened(sk.PublicKey(), idx)
		if !viaPrivate.Equal(viaPublic) {
			t.Fatalf("index %d: private path %s != public path %s", idx, viaPrivate, viaPublic)
		}
	})
}

func TestPrivateKeyFromBytes(t *testing.T) {
	b, _ := hex.DecodeString(leafSKHex)
	sk, err := PrivateKeyFromBytes(b)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	if !bytes.Equal(sk.Bytes(), b) {
		t.Fatalf("round trip mismatch")
	}
	if _, err := PrivateKeyFromBytes(b[:31]); !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("short key: expected InvalidKeyMaterial, got %v", err)
	}
	order := make([]byte, 32)
	GroupOrder().FillBytes(order)
	if _, err := PrivateKeyFromBytes(order); !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("scalar == r: expected InvalidKeyMaterial, got %v", err)
	}
}

func TestGroupOrderIsCopy(t *testing.T) {
	r := GroupOrder()
	r.SetInt64(0)
	if GroupOrder().Sign() == 0 {
		t.Fatal("GroupOrder returned shared state")
	}
	want, _ := new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)
	if GroupOrder().Cmp(want) != 0 {
		t.Fatalf("GroupOrder = %x", GroupOrder())
	}
}

func TestScalarReduction(t *testing.T) {
	r := GroupOrder()
	a := PublicKeyFromScalar(new(big.Int).Add(r, big.NewInt(5)))
	b := PublicKeyFromScalar(big.NewInt(5))
	if !a.Equal(b) {
		t.Fatal("(r+5)·G != 5·G")
	}
	neg := PublicKeyFromScalar(big.NewInt(-1))
	if !neg.Add(PublicKeyFromScalar(big.NewInt(1))).Equal(PublicKeyFromScalar(big.NewInt(0))) {
		t.Fatal("-G + G is not the identity")
	}
}

func TestKeyGen(t *testing.T) {
	seed := bytes.Repeat([]byte{0x2a}, 32)
	a, err := KeyGen(seed)
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	b, _ := KeyGen(seed)
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("KeyGen is not deterministic")
	}
	if a.BigInt().Cmp(GroupOrder()) >= 0 {
		t.Fatal("KeyGen result not reduced")
	}
	other, _ := KeyGen(append(seed, 0x01))
	if bytes.Equal(a.Bytes(), other.Bytes()) {
		t.Fatal("different seeds produced the same key")
	}
	if _, err := KeyGen(seed[:31]); !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("short seed: expected InvalidKeyMaterial, got %v", err)
	}
}

// Fingerprints (first four bytes of sha256 over the public key) that Chia
// wallets display for these seeds.
func TestKeyGenKnownFingerprints(t *testing.T) {
	cases := []struct {
		fill byte
		want uint32
	}{
		{0x00, 0xb40dd58a},
		{0x01, 0xb839add1},
	}
	for _, tc := range cases {
		sk, err := KeyGen(bytes.Repeat([]byte{tc.fill}, 32))
		if err != nil {
			t.Fatalf("KeyGen(%#02x): %v", tc.fill, err)
		}
		h := Hash256(sk.PublicKey().Bytes())
		if got := binary.BigEndian.Uint32(h[:4]); got != tc.want {
			t.Fatalf("seed 32x%#02x: fingerprint = %#08x, want %#08x", tc.fill, got, tc.want)
		}
	}
}

func TestSeedFromMnemonic(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	seed, err := SeedFromMnemonic(mnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	const want = "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04"
	if got := hex.EncodeToString(seed); got != want {
		t.Fatalf("seed = %s, want %s", got, want)
	}
	if _, err := SeedFromMnemonic("abandon abandon abandon", ""); !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("bad mnemonic: expected InvalidKeyMaterial, got %v", err)
	}
}
