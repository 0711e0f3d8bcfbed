package keys

import (
	"encoding/binary"

	"xdao.co/blsaddr/bls"
)

// Fingerprint is the first four bytes of sha256(pk) as a big-endian integer,
// the short identifier wallets display for a master key.
func Fingerprint(pk *bls.PublicKey) uint32 {
	h := bls.Hash256(pk.Bytes())
	return binary.BigEndian.Uint32(h[:4])
}

// KeyInfo is the printable summary of a key at a path.
type KeyInfo struct {
	Path        string `json:"path"`
	Fingerprint uint32 `json:"fingerprint"`
	PublicKey   string `json:"public_key"`
	PrivateKey  string `json:"private_key,omitempty"`
}

// ExportPublic describes pk, reached from its master key via path.
func ExportPublic(path Path, pk *bls.PublicKey) KeyInfo {
	return KeyInfo{
		Path:        path.String(),
		Fingerprint: Fingerprint(pk),
		PublicKey:   pk.Hex(),
	}
}

// ExportPrivate is ExportPublic plus the hex private key.
func ExportPrivate(path Path, sk *bls.PrivateKey) KeyInfo {
	info := ExportPublic(path, sk.PublicKey())
	info.PrivateKey = sk.Hex()
	return info
}
