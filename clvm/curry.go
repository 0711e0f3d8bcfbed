package clvm

import "bytes"

// Curry binds args as the leading environment entries of p:
//
//	(a (q . p) (c (q . arg0) (c (q . arg1) ... 1)))
func (p *Program) Curry(args ...*Program) *Program {
	env := one
	for i := len(args) - 1; i >= 0; i-- {
		env = List(opAtom(opCons), Cons(opAtom(opQuote), args[i]), env)
	}
	return List(opAtom(opApply), Cons(opAtom(opQuote), p), env)
}

// Uncurry reverses Curry. ok is false when p does not have the curried shape.
func (p *Program) Uncurry() (mod *Program, args []*Program, ok bool) {
	items, ok := p.ListItems()
	if !ok || len(items) != 3 || !isOp(items[0], opApply) {
		return nil, nil, false
	}
	q := items[1]
	if !q.IsPair() || !isOp(q.left, opQuote) {
		return nil, nil, false
	}
	mod = q.right

	env := items[2]
	for {
		if env.IsAtom() {
			if !bytes.Equal(env.atom, one.atom) {
				return nil, nil, false
			}
			return mod, args, true
		}
		parts, ok := env.ListItems()
		if !ok || len(parts) != 3 || !isOp(parts[0], opCons) {
			return nil, nil, false
		}
		qa := parts[1]
		if !qa.IsPair() || !isOp(qa.left, opQuote) {
			return nil, nil, false
		}
		args = append(args, qa.right)
		env = parts[2]
	}
}

// CurriedTreeHash computes the tree hash of mod curried with arguments whose
// tree hashes are given, without building the program.
func CurriedTreeHash(modHash [32]byte, argHashes ...[32]byte) [32]byte {
	quoteHash := hashAtom([]byte{opQuote})
	consHash := hashAtom([]byte{opCons})
	applyHash := hashAtom([]byte{opApply})
	nilHash := hashAtom(nil)

	env := hashAtom(one.atom)
	for i := len(argHashes) - 1; i >= 0; i-- {
		quoted := hashPair(quoteHash, argHashes[i])
		env = hashPair(consHash, hashPair(quoted, hashPair(env, nilHash)))
	}
	quotedMod := hashPair(quoteHash, modHash)
	return hashPair(applyHash, hashPair(quotedMod, hashPair(env, nilHash)))
}

func isOp(p *Program, op byte) bool {
	return p.IsAtom() && len(p.atom) == 1 && p.atom[0] == op
}

func opAtom(op byte) *Program {
	return &Program{atom: []byte{op}}
}
