// Package encoder turns a master public key into an address: derive the leaf
// key, optionally replace it with the synthetic key's puzzle hash, and encode
// the payload.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/ipfs/go-cid"
	"golang.org/x/sync/errgroup"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/address"
	"xdao.co/blsaddr/bls"
	"xdao.co/blsaddr/cidutil"
	"xdao.co/blsaddr/clvm"
	"xdao.co/blsaddr/keys"
	"xdao.co/blsaddr/puzzles"
)

// Derivation is everything computed on the way from a master key to an
// address. Synthetic fields are nil in ModePublicKey.
type Derivation struct {
	Path      keys.Path
	Mode      Mode
	PublicKey *bls.PublicKey

	SyntheticKey *bls.PublicKey
	PuzzleHash   []byte
	PuzzleReveal *clvm.Program
	RevealCID    cid.Cid

	Payload []byte
	Prefix  string
	Address string
}

// ErrUnknownMode is returned for a Mode outside the declared constants.
var ErrUnknownMode = errors.New("encoder: unknown mode")

// MasterKeyToAddress derives the key at derivationPath and encodes it under
// prefix. With useSyntheticKey the payload is the 32-byte puzzle hash of the
// standard puzzle locked to the synthetic key (nil hiddenPuzzleHash selects
// the default hidden puzzle); otherwise it is the 48-byte leaf public key.
// Unlike Options.Prefix, an empty prefix is rejected here.
func MasterKeyToAddress(masterPublicKeyHex string, derivationPath keys.Path, prefix string, useSyntheticKey bool, hiddenPuzzleHash []byte) (string, error) {
	if prefix == "" {
		return "", addrerr.New(addrerr.KindChecksumMismatch, "encoder.MasterKeyToAddress", "empty prefix")
	}
	mode := ModePublicKey
	if useSyntheticKey {
		mode = ModeSynthetic
	}
	d, err := Derive(masterPublicKeyHex, Options{
		Path:             derivationPath,
		Prefix:           prefix,
		Mode:             mode,
		HiddenPuzzleHash: hiddenPuzzleHash,
	})
	if err != nil {
		return "", err
	}
	return d.Address, nil
}

// Derive runs the full pipeline for one path.
func Derive(masterPublicKeyHex string, opts Options) (*Derivation, error) {
	master, err := bls.PublicKeyFromHex(masterPublicKeyHex)
	if err != nil {
		return nil, err
	}
	return deriveFrom(master, opts.withDefaults())
}

// DeriveBatch derives opts.Path extended by each index, concurrently. Results
// are in the order of indices. The first failure cancels derivations that
// have not started yet.
func DeriveBatch(ctx context.Context, masterPublicKeyHex string, opts Options, indices []uint32) ([]*Derivation, error) {
	master, err := bls.PublicKeyFromHex(masterPublicKeyHex)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	out := make([]*Derivation, len(indices))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, idx := range indices {
		i, idx := i, idx
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := opts
			o.Path = append(append(keys.Path{}, opts.Path...), idx)
			d, err := deriveFrom(master, o)
			if err != nil {
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func deriveFrom(master *bls.PublicKey, opts Options) (*Derivation, error) {
	leaf, err := keys.DerivePath(master, opts.Path)
	if err != nil {
		return nil, err
	}
	d := &Derivation{
		Path:      append(keys.Path{}, opts.Path...),
		Mode:      opts.Mode,
		PublicKey: leaf,
		Prefix:    opts.Prefix,
	}

	switch opts.Mode {
	case ModePublicKey:
		d.Payload = leaf.Bytes()
	case ModeSynthetic:
		syn, err := keys.SyntheticPublicKey(leaf, opts.HiddenPuzzleHash)
		if err != nil {
			return nil, err
		}
		reveal := puzzles.PuzzleForSyntheticKey(syn.Bytes())
		hash := reveal.TreeHash()
		c, err := cidutil.ForProgram(reveal)
		if err != nil {
			return nil, err
		}
		d.SyntheticKey = syn
		d.PuzzleReveal = reveal
		d.PuzzleHash = hash[:]
		d.RevealCID = c
		d.Payload = append([]byte(nil), hash[:]...)
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownMode, int(opts.Mode))
	}

	addr, err := address.Encode(d.Payload, opts.Prefix)
	if err != nil {
		return nil, err
	}
	d.Address = addr
	return d, nil
}
