package clvm

import "math/big"

const maxEvalDepth = 1 << 14

// Run evaluates p against env and returns the result with the cost spent.
// A zero maxCost selects DefaultMaxCost.
func (p *Program) Run(env *Program, maxCost uint64) (*Program, uint64, error) {
	if maxCost == 0 {
		maxCost = DefaultMaxCost
	}
	m := &machine{max: maxCost}
	out, err := m.eval(p, env, 0)
	if err != nil {
		return nil, m.cost, err
	}
	return out, m.cost, nil
}

type machine struct {
	cost uint64
	max  uint64
}

func (m *machine) charge(c uint64) error {
	m.cost += c
	if m.cost > m.max {
		return ErrCostExceeded
	}
	return nil
}

func (m *machine) alloc(b []byte) (*Program, error) {
	if err := m.charge(mallocCost * uint64(len(b))); err != nil {
		return nil, err
	}
	return atomNoCopy(b), nil
}

func (m *machine) eval(prog, env *Program, depth int) (*Program, error) {
	for {
		if depth > maxEvalDepth {
			return nil, evalErr("evaluation too deep", prog)
		}
		if prog.IsAtom() {
			return m.lookup(prog, env)
		}

		op, operands := prog.left, prog.right
		var opcode []byte
		var args []*Program
		if op.IsPair() {
			// ((X) . args) applies X to the operands without evaluating them.
			if op.left.IsPair() || !op.right.IsNil() {
				return nil, evalErr("in ((X)...) syntax X must be lone atom", prog)
			}
			items, ok := operands.ListItems()
			if !ok {
				return nil, evalErr("bad operand list", prog)
			}
			opcode, args = op.left.atom, items
		} else {
			if isOp(op, opQuote) {
				if err := m.charge(quoteCost); err != nil {
					return nil, err
				}
				return operands, nil
			}
			items, ok := operands.ListItems()
			if !ok {
				return nil, evalErr("bad operand list", prog)
			}
			args = make([]*Program, len(items))
			for i, item := range items {
				v, err := m.eval(item, env, depth+1)
				if err != nil {
					return nil, err
				}
				args[i] = v
			}
			opcode = op.atom
		}

		if len(opcode) == 1 && opcode[0] == opApply {
			if len(args) != 2 {
				return nil, evalErr("apply takes exactly 2 parameters", prog)
			}
			if err := m.charge(applyCost); err != nil {
				return nil, err
			}
			prog, env = args[0], args[1]
			depth++
			continue
		}
		return m.call(opcode, args, prog)
	}
}

// lookup walks env along the path encoded by the atom: bits are consumed from
// the least significant end, 0 selecting first and 1 selecting rest, until
// only the leading 1 bit remains.
func (m *machine) lookup(path, env *Program) (*Program, error) {
	a := path.atom
	zeros := 0
	for zeros < len(a) && a[zeros] == 0 {
		zeros++
	}
	cost := uint64(pathLookupBase + pathLookupPerZeroB*zeros)
	if zeros == len(a) {
		if err := m.charge(cost); err != nil {
			return nil, err
		}
		return Nil, nil
	}

	idx := new(big.Int).SetBytes(a[zeros:])
	legs := idx.BitLen() - 1
	if err := m.charge(cost + uint64(pathLookupPerLeg*legs)); err != nil {
		return nil, err
	}
	cur := env
	for i := 0; i < legs; i++ {
		if cur.IsAtom() {
			return nil, evalErr("path into atom", path)
		}
		if idx.Bit(i) == 0 {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return cur, nil
}

func (m *machine) call(opcode []byte, args []*Program, node *Program) (*Program, error) {
	if len(opcode) != 1 {
		return nil, evalErr("unimplemented operator", node)
	}
	f, ok := operators[opcode[0]]
	if !ok {
		return nil, evalErr("unimplemented operator", node)
	}
	return f(m, args, node)
}
