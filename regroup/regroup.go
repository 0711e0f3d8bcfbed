// Package regroup converts byte sequences between fixed bit widths.
//
// It is the packing step used by the address codec: 8-bit payload bytes are
// regrouped into 5-bit groups before checksum encoding, and back again after
// decoding.
package regroup

import (
	"fmt"

	"xdao.co/blsaddr/addrerr"
)

const op = "regroup.Convert"

// Convert regroups data, where every element carries fromBits significant
// bits, into elements carrying toBits bits each. Bits are consumed and
// emitted most-significant first.
//
// With pad set, a trailing partial group is left-justified and zero-filled.
// Without pad, the trailing bits must be fewer than fromBits and all zero,
// otherwise a NonCanonicalPadding error is returned.
//
// Widths must be between 1 and 8. On failure no partial output is returned.
func Convert(data []byte, fromBits, toBits uint8, pad bool) ([]byte, error) {
	if fromBits < 1 || fromBits > 8 || toBits < 1 || toBits > 8 {
		return nil, addrerr.New(addrerr.KindInvalidInputBits, op,
			fmt.Sprintf("unsupported widths %d -> %d", fromBits, toBits))
	}

	var (
		acc  uint32
		bits uint8
	)
	maxv := uint32(1)<<toBits - 1
	// Only the bits that can still be emitted are kept.
	maxAcc := uint32(1)<<(fromBits+toBits-1) - 1

	out := make([]byte, 0, (len(data)*int(fromBits)+int(toBits)-1)/int(toBits))
	for i, v := range data {
		if uint32(v)>>fromBits != 0 {
			return nil, addrerr.New(addrerr.KindInvalidInputBits, op,
				fmt.Sprintf("value %d at index %d needs more than %d bits", v, i, fromBits))
		}
		acc = (acc<<fromBits | uint32(v)) & maxAcc
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
		return out, nil
	}

	if bits >= fromBits {
		return nil, addrerr.New(addrerr.KindNonCanonicalPadding, op,
			fmt.Sprintf("%d leftover bits form an incomplete group", bits))
	}
	if acc<<(toBits-bits)&maxv != 0 {
		return nil, addrerr.New(addrerr.KindNonCanonicalPadding, op, "non-zero padding bits")
	}
	return out, nil
}
