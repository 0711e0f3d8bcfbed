package encoder

import (
	"xdao.co/blsaddr/address"
	"xdao.co/blsaddr/keys"
	"xdao.co/blsaddr/puzzles"
)

// Mode selects which payload an address carries.
type Mode int

const (
	// ModeSynthetic encodes the tree hash of the standard puzzle curried with
	// the synthetic key. It is the zero value.
	ModeSynthetic Mode = iota
	// ModePublicKey encodes the 48-byte leaf public key.
	ModePublicKey
)

func (m Mode) String() string {
	switch m {
	case ModeSynthetic:
		return "synthetic"
	case ModePublicKey:
		return "public-key"
	default:
		return "unknown"
	}
}

// Options controls a derivation.
type Options struct {
	// Path is applied to the master key. A nil or empty path uses the master
	// key itself.
	Path keys.Path
	// Prefix is the address human-readable part; empty selects
	// address.DefaultPrefix.
	Prefix string
	Mode   Mode
	// HiddenPuzzleHash is only used in ModeSynthetic; nil selects the default
	// hidden puzzle.
	HiddenPuzzleHash []byte
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = address.DefaultPrefix
	}
	if o.HiddenPuzzleHash == nil {
		o.HiddenPuzzleHash = puzzles.DefaultHiddenPuzzleHash()
	}
	return o
}
