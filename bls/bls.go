// Package bls wraps BLS12-381 G1 arithmetic for key derivation.
//
// Public keys are G1 points in the 48-byte compressed serialization; private
// keys are scalars modulo the group order in 32-byte big-endian form. Group
// arithmetic is provided by circl.
package bls

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/cloudflare/circl/ecc/bls12381"

	"xdao.co/blsaddr/addrerr"
)

const (
	// PublicKeySize is the length of a compressed G1 point.
	PublicKeySize = bls12381.G1SizeCompressed
	// PrivateKeySize is the length of a serialized scalar.
	PrivateKeySize = bls12381.ScalarSize
)

var groupOrder = new(big.Int).SetBytes(bls12381.Order())

// GroupOrder returns the BLS12-381 scalar group order r. The result is a
// fresh copy that the caller may modify.
func GroupOrder() *big.Int {
	return new(big.Int).Set(groupOrder)
}

// Hash256 is the domain hash used for derivation offsets (sha256 over the
// concatenation of parts).
func Hash256(parts ...[]byte) [32]byte {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// PublicKey is a G1 element.
type PublicKey struct {
	p bls12381.G1
}

// PublicKeyFromBytes parses a 48-byte compressed G1 point.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	const op = "bls.PublicKeyFromBytes"
	if len(b) != PublicKeySize {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, op,
			fmt.Sprintf("public key must be %d bytes, got %d", PublicKeySize, len(b)))
	}
	if b[0]&0x80 == 0 {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, op, "public key is not in compressed form")
	}
	pk := &PublicKey{}
	if err := pk.p.SetBytes(b); err != nil {
		return nil, addrerr.Wrap(addrerr.KindInvalidKeyMaterial, op, "invalid G1 element", err)
	}
	return pk, nil
}

// PublicKeyFromHex parses a hex-encoded compressed G1 point. Surrounding
// whitespace and a leading "0x" are ignored.
func PublicKeyFromHex(s string) (*PublicKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, addrerr.Wrap(addrerr.KindInvalidKeyMaterial, "bls.PublicKeyFromHex", "malformed hex", err)
	}
	return PublicKeyFromBytes(b)
}

// PublicKeyFromScalar returns G·k where G is the G1 generator. k is reduced
// modulo the group order first, so negative values are accepted.
func PublicKeyFromScalar(k *big.Int) *PublicKey {
	s := scalarFromBig(k)
	pk := &PublicKey{}
	pk.p.ScalarMult(&s, bls12381.G1Generator())
	return pk
}

// Bytes returns the 48-byte compressed serialization.
func (pk *PublicKey) Bytes() []byte {
	return pk.p.BytesCompressed()
}

// Hex returns the compressed serialization in lowercase hex.
func (pk *PublicKey) Hex() string {
	return hex.EncodeToString(pk.Bytes())
}

func (pk *PublicKey) String() string {
	return pk.Hex()
}

// Equal reports whether pk and other are the same group element.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	if pk.p.IsIdentity() || other.p.IsIdentity() {
		return pk.p.IsIdentity() && other.p.IsIdentity()
	}
	return pk.p.IsEqual(&other.p)
}

// Add returns pk + other.
func (pk *PublicKey) Add(other *PublicKey) *PublicKey {
	out := &PublicKey{}
	out.p.Add(&pk.p, &other.p)
	return out
}

// PrivateKey is a scalar modulo the group order.
type PrivateKey struct {
	s bls12381.Scalar
}

// PrivateKeyFromBytes parses a 32-byte big-endian scalar. Values at or above
// the group order are rejected.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	const op = "bls.PrivateKeyFromBytes"
	if len(b) != PrivateKeySize {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, op,
			fmt.Sprintf("private key must be %d bytes, got %d", PrivateKeySize, len(b)))
	}
	sk := &PrivateKey{}
	if err := sk.s.UnmarshalBinary(b); err != nil {
		return nil, addrerr.Wrap(addrerr.KindInvalidKeyMaterial, op, "scalar out of range", err)
	}
	return sk, nil
}

// PrivateKeyFromBigInt reduces k modulo the group order.
func PrivateKeyFromBigInt(k *big.Int) *PrivateKey {
	return &PrivateKey{s: scalarFromBig(k)}
}

// Bytes returns the 32-byte big-endian serialization.
func (sk *PrivateKey) Bytes() []byte {
	b, _ := sk.s.MarshalBinary()
	return b
}

// Hex returns the 32-byte serialization in lowercase hex.
func (sk *PrivateKey) Hex() string {
	return hex.EncodeToString(sk.Bytes())
}

// BigInt returns the scalar as an integer in [0, r).
func (sk *PrivateKey) BigInt() *big.Int {
	return new(big.Int).SetBytes(sk.Bytes())
}

// PublicKey returns G·sk.
func (sk *PrivateKey) PublicKey() *PublicKey {
	pk := &PublicKey{}
	pk.p.ScalarMult(&sk.s, bls12381.G1Generator())
	return pk
}

// DeriveChildPublicKeyUnhardened returns parent + G·(sha256(parent || index) mod r).
func DeriveChildPublicKeyUnhardened(parent *PublicKey, index uint32) *PublicKey {
	return parent.Add(PublicKeyFromScalar(childOffset(parent, index)))
}

// DeriveChildPrivateKeyUnhardened returns (parent + sha256(G·parent || index)) mod r.
// Its public key equals DeriveChildPublicKeyUnhardened(parent.PublicKey(), index).
func DeriveChildPrivateKeyUnhardened(parent *PrivateKey, index uint32) *PrivateKey {
	k := childOffset(parent.PublicKey(), index)
	k.Add(k, parent.BigInt())
	return PrivateKeyFromBigInt(k)
}

func childOffset(parent *PublicKey, index uint32) *big.Int {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	digest := Hash256(parent.Bytes(), idx[:])
	k := new(big.Int).SetBytes(digest[:])
	return k.Mod(k, groupOrder)
}

func scalarFromBig(k *big.Int) bls12381.Scalar {
	m := new(big.Int).Mod(k, groupOrder)
	var buf [PrivateKeySize]byte
	m.FillBytes(buf[:])
	var s bls12381.Scalar
	s.SetBytes(buf[:])
	return s
}
