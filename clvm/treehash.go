package clvm

import "crypto/sha256"

// TreeHash returns the sha256 tree hash of p: atoms hash as sha256(1 || a),
// pairs as sha256(2 || hash(first) || hash(rest)).
func (p *Program) TreeHash() [32]byte {
	if p.IsAtom() {
		return hashAtom(p.atom)
	}
	l := p.left.TreeHash()
	r := p.right.TreeHash()
	return hashPair(l, r)
}

func hashAtom(a []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte{1})
	h.Write(a)
	var out [32]byte
	h.Sum(out[:0])
	return out
}

func hashPair(l, r [32]byte) [32]byte {
	h := sha256.New()
	h.Write([]byte{2})
	h.Write(l[:])
	h.Write(r[:])
	var out [32]byte
	h.Sum(out[:0])
	return out
}
