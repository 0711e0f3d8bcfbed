package main

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"xdao.co/blsaddr/bls"
	"xdao.co/blsaddr/encoder"
	"xdao.co/blsaddr/keys"
	"xdao.co/blsaddr/puzzles"
)

// masterScalar is the private key behind the master public key used across
// the package tests.
const masterScalar = 177

func mustDerive(masterHex string, opts encoder.Options) *encoder.Derivation {
	d, err := encoder.Derive(masterHex, opts)
	if err != nil {
		panic(err)
	}
	return d
}

func main() {
	master := bls.PrivateKeyFromBigInt(big.NewInt(masterScalar))
	masterHex := master.PublicKey().Hex()

	walletPath := keys.WalletPath(0)
	leaf, err := keys.DerivePrivatePath(master, walletPath)
	if err != nil {
		panic(err)
	}
	synSK, err := keys.SyntheticPrivateKey(leaf, puzzles.DefaultHiddenPuzzleHash())
	if err != nil {
		panic(err)
	}
	offset, err := keys.SyntheticOffset(leaf.PublicKey(), puzzles.DefaultHiddenPuzzleHash())
	if err != nil {
		panic(err)
	}

	wallet := mustDerive(masterHex, encoder.Options{Path: walletPath})
	legacy := mustDerive(masterHex, encoder.Options{Path: keys.Path{0}, Mode: encoder.ModePublicKey})
	masterPK := mustDerive(masterHex, encoder.Options{Mode: encoder.ModePublicKey})
	masterSyn := mustDerive(masterHex, encoder.Options{})

	fmt.Printf("MASTER_SK=%s\n", master.Hex())
	fmt.Printf("MASTER_PK=%s\n", masterHex)
	fmt.Printf("MASTER_FINGERPRINT=%d\n", keys.Fingerprint(master.PublicKey()))
	fmt.Printf("LEAF_PATH=%s\n", walletPath)
	fmt.Printf("LEAF_SK=%s\n", leaf.Hex())
	fmt.Printf("LEAF_PK=%s\n", leaf.PublicKey().Hex())
	fmt.Printf("SYNTHETIC_OFFSET=%s\n", hex.EncodeToString(offset.FillBytes(make([]byte, bls.PrivateKeySize))))
	fmt.Printf("SYNTHETIC_SK=%s\n", synSK.Hex())
	fmt.Printf("SYNTHETIC_PK=%s\n", wallet.SyntheticKey.Hex())
	fmt.Printf("PUZZLE_HASH=%s\n", hex.EncodeToString(wallet.PuzzleHash))
	fmt.Printf("REVEAL_CID=%s\n", wallet.RevealCID)
	fmt.Printf("WALLET_ADDRESS=%s\n", wallet.Address)
	fmt.Printf("LEGACY_ADDRESS=%s\n", legacy.Address)
	fmt.Printf("MASTER_PK_ADDRESS=%s\n", masterPK.Address)
	fmt.Printf("MASTER_SYNTHETIC_ADDRESS=%s\n", masterSyn.Address)
}
