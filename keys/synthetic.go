package keys

import (
	"fmt"
	"math/big"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/bls"
	"xdao.co/blsaddr/clvm"
	"xdao.co/blsaddr/puzzles"
)

// HiddenPuzzleHashSize is the length of a puzzle tree hash.
const HiddenPuzzleHashSize = 32

func checkHiddenHash(op string, h []byte) error {
	if len(h) != HiddenPuzzleHashSize {
		return addrerr.New(addrerr.KindInvalidKeyMaterial, op,
			fmt.Sprintf("hidden puzzle hash must be %d bytes, got %d", HiddenPuzzleHashSize, len(h)))
	}
	return nil
}

// SyntheticOffset returns sha256(pk || hiddenPuzzleHash) reduced modulo the
// group order. The digest is read as a signed big-endian integer, matching
// the pubkey_for_exp operator that the puzzle uses for the same value.
func SyntheticOffset(pk *bls.PublicKey, hiddenPuzzleHash []byte) (*big.Int, error) {
	const op = "keys.SyntheticOffset"
	if pk == nil {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, op, "missing public key")
	}
	if err := checkHiddenHash(op, hiddenPuzzleHash); err != nil {
		return nil, err
	}
	digest := bls.Hash256(pk.Bytes(), hiddenPuzzleHash)
	k := clvm.IntFromBytes(digest[:])
	return k.Mod(k, bls.GroupOrder()), nil
}

// SyntheticPublicKey evaluates the synthetic-key program for pk and
// hiddenPuzzleHash.
func SyntheticPublicKey(pk *bls.PublicKey, hiddenPuzzleHash []byte) (*bls.PublicKey, error) {
	const op = "keys.SyntheticPublicKey"
	if pk == nil {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, op, "missing public key")
	}
	if err := checkHiddenHash(op, hiddenPuzzleHash); err != nil {
		return nil, err
	}
	env := clvm.List(clvm.Atom(pk.Bytes()), clvm.Atom(hiddenPuzzleHash))
	out, _, err := puzzles.SyntheticKeyProgram().Run(env, 0)
	if err != nil {
		return nil, addrerr.Wrap(addrerr.KindInvalidKeyMaterial, op, "synthetic key program failed", err)
	}
	if out.IsPair() {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, op, "synthetic key program returned a list")
	}
	return bls.PublicKeyFromBytes(out.AtomBytes())
}

// SyntheticPrivateKey returns (sk + offset) mod r, where offset is
// SyntheticOffset(sk.PublicKey(), hiddenPuzzleHash).
func SyntheticPrivateKey(sk *bls.PrivateKey, hiddenPuzzleHash []byte) (*bls.PrivateKey, error) {
	if sk == nil {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, "keys.SyntheticPrivateKey", "missing private key")
	}
	offset, err := SyntheticOffset(sk.PublicKey(), hiddenPuzzleHash)
	if err != nil {
		return nil, err
	}
	k := offset.Add(offset, sk.BigInt())
	k.Mod(k, bls.GroupOrder())
	buf := make([]byte, bls.PrivateKeySize)
	k.FillBytes(buf)
	return bls.PrivateKeyFromBytes(buf)
}
