// Package address encodes byte payloads as bech32m strings without the
// 90-character limit, so 48-byte public keys fit alongside 32-byte hashes.
package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/regroup"
)

// DefaultPrefix is the human-readable part used when none is given.
const DefaultPrefix = "bls1238"

// Encode regroups payload into 5-bit groups and encodes it with the bech32m
// checksum. The prefix is lowercased.
func Encode(payload []byte, prefix string) (string, error) {
	const op = "address.Encode"
	if err := checkPrefix(op, prefix); err != nil {
		return "", err
	}
	groups, err := regroup.Convert(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	s, err := bech32.EncodeM(prefix, groups)
	if err != nil {
		return "", addrerr.Wrap(addrerr.KindChecksumMismatch, op, "bech32m encode", err)
	}
	return s, nil
}

// Decode verifies the bech32m checksum of addr and returns the payload bytes
// and the lowercase prefix. Strings carrying the plain bech32 checksum are
// rejected.
func Decode(addr string) ([]byte, string, error) {
	const op = "address.Decode"
	prefix, groups, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return nil, "", addrerr.Wrap(addrerr.KindChecksumMismatch, op, "bech32m decode", err)
	}
	// DecodeNoLimit accepts either checksum constant; only bech32m re-encodes
	// to the same string.
	again, err := bech32.EncodeM(prefix, groups)
	if err != nil || again != strings.ToLower(addr) {
		return nil, "", addrerr.New(addrerr.KindChecksumMismatch, op, "checksum is not bech32m")
	}
	payload, err := regroup.Convert(groups, 5, 8, false)
	if err != nil {
		return nil, "", err
	}
	return payload, prefix, nil
}

func checkPrefix(op, prefix string) error {
	if prefix == "" {
		return addrerr.New(addrerr.KindChecksumMismatch, op, "empty prefix")
	}
	for i := 0; i < len(prefix); i++ {
		if c := prefix[i]; c < 33 || c > 126 {
			return addrerr.New(addrerr.KindChecksumMismatch, op, fmt.Sprintf("invalid prefix character %q", c))
		}
	}
	return nil
}

// PayloadKind classifies a decoded payload by its length.
type PayloadKind string

const (
	KindPuzzleHash PayloadKind = "puzzle_hash"
	KindPublicKey  PayloadKind = "public_key"
	KindOther      PayloadKind = "other"
)

// Info describes a decoded address.
type Info struct {
	Prefix  string      `json:"prefix"`
	Payload []byte      `json:"-"`
	Hex     string      `json:"hash"`
	Kind    PayloadKind `json:"kind"`
}

// Inspect decodes addr and classifies its payload.
func Inspect(addr string) (*Info, error) {
	payload, prefix, err := Decode(addr)
	if err != nil {
		return nil, err
	}
	info := &Info{
		Prefix:  prefix,
		Payload: payload,
		Hex:     hex.EncodeToString(payload),
		Kind:    KindOther,
	}
	switch len(payload) {
	case 32:
		info.Kind = KindPuzzleHash
	case 48:
		info.Kind = KindPublicKey
	}
	return info, nil
}
