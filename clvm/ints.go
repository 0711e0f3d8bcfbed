package clvm

import "math/big"

// IntFromBytes reads a signed two's-complement big-endian integer. The empty
// atom is zero.
func IntFromBytes(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b))*8))
	}
	return n
}

// IntToBytes returns the minimal signed big-endian encoding of n. Zero is the
// empty atom.
func IntToBytes(n *big.Int) []byte {
	switch n.Sign() {
	case 0:
		return []byte{}
	case 1:
		b := n.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	// -n-1 determines how many bytes the two's-complement form needs.
	m := new(big.Int).Neg(n)
	m.Sub(m, big.NewInt(1))
	size := m.BitLen()/8 + 1
	v := new(big.Int).Lsh(big.NewInt(1), uint(size)*8)
	v.Add(v, n)
	out := make([]byte, size)
	v.FillBytes(out)
	return out
}

// Int returns an atom holding the minimal encoding of n.
func Int(n *big.Int) *Program {
	return atomNoCopy(IntToBytes(n))
}

// AsInt interprets an atom as a signed integer. ok is false for pairs.
func (p *Program) AsInt() (n *big.Int, ok bool) {
	if p.IsPair() {
		return nil, false
	}
	return IntFromBytes(p.atom), true
}
