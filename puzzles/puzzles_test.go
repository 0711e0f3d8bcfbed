package puzzles

import (
	"encoding/hex"
	"testing"
)

const syntheticPKHex = "a76017fdce4b8bc04577ce9cd9149b4269e5cc621499df9d24876c14d710fd2d3db233cc5afb92b35ba8b852bc86266d"

func TestFixedHashes(t *testing.T) {
	h := StandardPuzzleHash()
	if got := hex.EncodeToString(h[:]); got != "e9aaa49f45bad5c889b86ee3341550c155cfdd10c3a6757de618d20612fffd52" {
		t.Fatalf("standard puzzle hash = %s", got)
	}
	if got := hex.EncodeToString(DefaultHiddenPuzzleHash()); got != "711d6c4e32c92e53179b199484cf8c897542bc57f2b22582799f9d657eec4699" {
		t.Fatalf("default hidden puzzle hash = %s", got)
	}
	if hh := DefaultHiddenPuzzle().TreeHash(); hex.EncodeToString(hh[:]) != hex.EncodeToString(DefaultHiddenPuzzleHash()) {
		t.Fatal("DefaultHiddenPuzzle does not hash to DefaultHiddenPuzzleHash")
	}
}

func TestDefaultHiddenPuzzleHashIsCopy(t *testing.T) {
	h := DefaultHiddenPuzzleHash()
	h[0] ^= 0xff
	if DefaultHiddenPuzzleHash()[0] == h[0] {
		t.Fatal("DefaultHiddenPuzzleHash returned shared state")
	}
}

func TestPuzzleForSyntheticKey(t *testing.T) {
	pk, _ := hex.DecodeString(syntheticPKHex)
	p := PuzzleForSyntheticKey(pk)
	h := p.TreeHash()
	const want = "c8b47d47738a162a3c539fb11fa8875594c65461b35f72b3fcb09fe98c533c6b"
	if got := hex.EncodeToString(h[:]); got != want {
		t.Fatalf("puzzle hash = %s, want %s", got, want)
	}
	if PuzzleHashForSyntheticKey(pk) != h {
		t.Fatal("PuzzleHashForSyntheticKey disagrees with TreeHash")
	}
	mod, args, ok := p.Uncurry()
	if !ok || !mod.Equal(StandardPuzzle()) || len(args) != 1 || hex.EncodeToString(args[0].AtomBytes()) != syntheticPKHex {
		t.Fatal("curried puzzle does not uncurry to the standard puzzle")
	}
}
