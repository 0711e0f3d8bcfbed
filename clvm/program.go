// Package clvm is a small CLVM engine: the binary serialization format, sha256
// tree hashing, currying, and an evaluator covering the operators needed by
// the standard puzzles.
package clvm

import "bytes"

// Program is an immutable CLVM value: either an atom (a byte string) or a
// pair of two programs. The zero-length atom is nil.
type Program struct {
	atom  []byte
	left  *Program
	right *Program
}

// Nil is the empty atom.
var Nil = &Program{atom: []byte{}}

var one = &Program{atom: []byte{1}}

// Atom returns an atom holding a copy of b.
func Atom(b []byte) *Program {
	if len(b) == 0 {
		return Nil
	}
	return &Program{atom: append([]byte(nil), b...)}
}

func atomNoCopy(b []byte) *Program {
	if len(b) == 0 {
		return Nil
	}
	return &Program{atom: b}
}

// Cons returns the pair (first . rest).
func Cons(first, rest *Program) *Program {
	return &Program{left: first, right: rest}
}

// List builds a nil-terminated proper list.
func List(items ...*Program) *Program {
	out := Nil
	for i := len(items) - 1; i >= 0; i-- {
		out = Cons(items[i], out)
	}
	return out
}

// IsPair reports whether p is a pair.
func (p *Program) IsPair() bool { return p.left != nil }

// IsAtom reports whether p is an atom.
func (p *Program) IsAtom() bool { return p.left == nil }

// IsNil reports whether p is the empty atom.
func (p *Program) IsNil() bool { return p.left == nil && len(p.atom) == 0 }

// AtomBytes returns a copy of the atom's bytes, or nil for pairs.
func (p *Program) AtomBytes() []byte {
	if p.IsPair() {
		return nil
	}
	return append([]byte(nil), p.atom...)
}

// First returns the left element of a pair, or nil for atoms.
func (p *Program) First() *Program { return p.left }

// Rest returns the right element of a pair, or nil for atoms.
func (p *Program) Rest() *Program { return p.right }

// Equal reports structural equality.
func (p *Program) Equal(other *Program) bool {
	if p.IsPair() != other.IsPair() {
		return false
	}
	if p.IsAtom() {
		return bytes.Equal(p.atom, other.atom)
	}
	return p.left.Equal(other.left) && p.right.Equal(other.right)
}

// ListItems returns the elements of a proper list. ok is false when p is not
// nil-terminated.
func (p *Program) ListItems() (items []*Program, ok bool) {
	for cur := p; ; cur = cur.right {
		if cur.IsAtom() {
			return items, cur.IsNil()
		}
		items = append(items, cur.left)
	}
}

func (p *Program) String() string {
	return Hex(p)
}
