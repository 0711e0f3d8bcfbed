// Package puzzles holds the fixed CLVM programs used to turn a public key into
// a puzzle hash.
package puzzles

import (
	"xdao.co/blsaddr/clvm"
)

const (
	// StandardPuzzleHex is p2_delegated_puzzle_or_hidden_puzzle.
	StandardPuzzleHex = "ff02ffff01ff02ffff03ff0bffff01ff02ffff03ffff09ff05ffff1dff0bffff1effff0bff0bffff02ff06ffff04ff02ffff04ff17ff8080808080808080ffff01ff02ff17ff2f80ffff01ff088080ff0180ffff01ff04ffff04ff04ffff04ff05ffff04ffff02ff06ffff04ff02ffff04ff17ff80808080ff80808080ffff02ff17ff2f808080ff0180ffff04ffff01ff32ff02ffff03ffff07ff0580ffff01ff0bffff0102ffff02ff06ffff04ff02ffff04ff09ff80808080ffff02ff06ffff04ff02ffff04ff0dff8080808080ffff01ff0bffff0101ff058080ff0180ff018080"

	// DefaultHiddenPuzzleHex is (=), a puzzle that always fails.
	DefaultHiddenPuzzleHex = "ff0980"

	// SyntheticKeyProgramHex computes pk + G·sha256(pk || hidden_hash)
	// from the environment (pk hidden_hash).
	SyntheticKeyProgramHex = "ff1dff02ffff1effff0bff02ff05808080"
)

var (
	standardPuzzle      = clvm.MustDeserializeHex(StandardPuzzleHex)
	defaultHiddenPuzzle = clvm.MustDeserializeHex(DefaultHiddenPuzzleHex)
	syntheticKeyProgram = clvm.MustDeserializeHex(SyntheticKeyProgramHex)

	standardPuzzleHash      = standardPuzzle.TreeHash()
	defaultHiddenPuzzleHash = defaultHiddenPuzzle.TreeHash()
)

// StandardPuzzle returns the uncurried standard puzzle.
func StandardPuzzle() *clvm.Program { return standardPuzzle }

// StandardPuzzleHash returns the tree hash of the uncurried standard puzzle.
func StandardPuzzleHash() [32]byte { return standardPuzzleHash }

// DefaultHiddenPuzzle returns the hidden puzzle used when none is supplied.
func DefaultHiddenPuzzle() *clvm.Program { return defaultHiddenPuzzle }

// DefaultHiddenPuzzleHash returns a fresh copy of the default hidden puzzle's
// tree hash.
func DefaultHiddenPuzzleHash() []byte {
	h := defaultHiddenPuzzleHash
	return h[:]
}

// SyntheticKeyProgram returns the program evaluated by keys.SyntheticPublicKey.
func SyntheticKeyProgram() *clvm.Program { return syntheticKeyProgram }

// PuzzleForSyntheticKey curries the standard puzzle with a serialized
// synthetic public key.
func PuzzleForSyntheticKey(syntheticKey []byte) *clvm.Program {
	return standardPuzzle.Curry(clvm.Atom(syntheticKey))
}

// PuzzleHashForSyntheticKey is the tree hash of PuzzleForSyntheticKey,
// computed without building the curried program.
func PuzzleHashForSyntheticKey(syntheticKey []byte) [32]byte {
	return clvm.CurriedTreeHash(standardPuzzleHash, clvm.Atom(syntheticKey).TreeHash())
}
