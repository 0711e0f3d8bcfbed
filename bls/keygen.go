package bls

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"

	"xdao.co/blsaddr/addrerr"
)

// MinSeedSize is the shortest seed KeyGen accepts.
const MinSeedSize = 32

var keyGenSalt = []byte("BLS-SIG-KEYGEN-SALT-")

// KeyGen derives a master private key from seed material using the
// HKDF-SHA256 construction with a 48-byte output reduced modulo r.
func KeyGen(seed []byte) (*PrivateKey, error) {
	if len(seed) < MinSeedSize {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, "bls.KeyGen",
			fmt.Sprintf("seed must be at least %d bytes, got %d", MinSeedSize, len(seed)))
	}
	ikm := make([]byte, len(seed)+1)
	copy(ikm, seed)
	info := []byte{0x00, 0x30}

	okm := make([]byte, 48)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, keyGenSalt, info), okm); err != nil {
		return nil, addrerr.Wrap(addrerr.KindInvalidKeyMaterial, "bls.KeyGen", "hkdf expand", err)
	}
	return PrivateKeyFromBigInt(new(big.Int).SetBytes(okm)), nil
}

// SeedFromMnemonic validates a BIP-39 mnemonic and returns its 64-byte seed.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, addrerr.Wrap(addrerr.KindInvalidKeyMaterial, "bls.SeedFromMnemonic", "invalid mnemonic", err)
	}
	return seed, nil
}
