// Package cidutil derives content identifiers for serialized puzzle reveals so
// a puzzle can be fetched from content-addressed storage by its CID.
package cidutil

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/blsaddr/clvm"
)

var ErrCIDMismatch = errors.New("cidutil: cid mismatch")

// CIDv1RawSHA256 returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// ForProgram returns the CID of the serialized program.
func ForProgram(p *clvm.Program) (cid.Cid, error) {
	return CIDv1RawSHA256(clvm.Serialize(p))
}

// Verify checks that s is the raw sha2-256 CIDv1 of reveal.
func Verify(s string, reveal []byte) error {
	got, err := cid.Decode(s)
	if err != nil {
		return fmt.Errorf("cidutil: parse %q: %w", s, err)
	}
	want, err := CIDv1RawSHA256(reveal)
	if err != nil {
		return err
	}
	if !got.Equals(want) {
		return fmt.Errorf("%w: have %s, content hashes to %s", ErrCIDMismatch, got, want)
	}
	return nil
}
