package clvm

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"

	"xdao.co/blsaddr/bls"
)

const (
	opQuote        = 0x01
	opApply        = 0x02
	opIf           = 0x03
	opCons         = 0x04
	opFirst        = 0x05
	opRest         = 0x06
	opListp        = 0x07
	opRaise        = 0x08
	opEq           = 0x09
	opGrBytes      = 0x0a
	opSha256       = 0x0b
	opSubstr       = 0x0c
	opStrlen       = 0x0d
	opConcat       = 0x0e
	opAdd          = 0x10
	opSub          = 0x11
	opMul          = 0x12
	opGr           = 0x15
	opPointAdd     = 0x1d
	opPubkeyForExp = 0x1e
	opNot          = 0x20
	opAny          = 0x21
	opAll          = 0x22
)

type operator func(m *machine, args []*Program, node *Program) (*Program, error)

var operators = map[byte]operator{
	opIf:           opIfFn,
	opCons:         opConsFn,
	opFirst:        opFirstFn,
	opRest:         opRestFn,
	opListp:        opListpFn,
	opRaise:        opRaiseFn,
	opEq:           opEqFn,
	opGrBytes:      opGrBytesFn,
	opSha256:       opSha256Fn,
	opSubstr:       opSubstrFn,
	opStrlen:       opStrlenFn,
	opConcat:       opConcatFn,
	opAdd:          opAddFn,
	opSub:          opSubFn,
	opMul:          opMulFn,
	opGr:           opGrFn,
	opPointAdd:     opPointAddFn,
	opPubkeyForExp: opPubkeyForExpFn,
	opNot:          opNotFn,
	opAny:          opAnyFn,
	opAll:          opAllFn,
}

var opNames = map[byte]string{
	opIf: "i", opCons: "c", opFirst: "f", opRest: "r", opListp: "l",
	opRaise: "x", opEq: "=", opGrBytes: ">s", opSha256: "sha256",
	opSubstr: "substr", opStrlen: "strlen", opConcat: "concat",
	opAdd: "+", opSub: "-", opMul: "*", opGr: ">",
	opPointAdd: "point_add", opPubkeyForExp: "pubkey_for_exp",
	opNot: "not", opAny: "any", opAll: "all",
}

func boolAtom(b bool) *Program {
	if b {
		return one
	}
	return Nil
}

func wantArgs(op byte, args []*Program, n int, node *Program) error {
	if len(args) != n {
		return evalErr(fmt.Sprintf("%s takes exactly %d argument(s)", opNames[op], n), node)
	}
	return nil
}

func atoms(op byte, args []*Program) ([][]byte, int, error) {
	out := make([][]byte, len(args))
	total := 0
	for i, a := range args {
		if a.IsPair() {
			return nil, 0, evalErr(fmt.Sprintf("%s on list", opNames[op]), a)
		}
		out[i] = a.atom
		total += len(a.atom)
	}
	return out, total, nil
}

func ints(op byte, args []*Program) ([]*big.Int, int, error) {
	raw, total, err := atoms(op, args)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*big.Int, len(raw))
	for i, b := range raw {
		out[i] = IntFromBytes(b)
	}
	return out, total, nil
}

func opIfFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opIf, args, 3, node); err != nil {
		return nil, err
	}
	if err := m.charge(ifCost); err != nil {
		return nil, err
	}
	if !args[0].IsNil() {
		return args[1], nil
	}
	return args[2], nil
}

func opConsFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opCons, args, 2, node); err != nil {
		return nil, err
	}
	if err := m.charge(consCost); err != nil {
		return nil, err
	}
	return Cons(args[0], args[1]), nil
}

func opFirstFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opFirst, args, 1, node); err != nil {
		return nil, err
	}
	if args[0].IsAtom() {
		return nil, evalErr("first of non-cons", args[0])
	}
	if err := m.charge(firstCost); err != nil {
		return nil, err
	}
	return args[0].left, nil
}

func opRestFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opRest, args, 1, node); err != nil {
		return nil, err
	}
	if args[0].IsAtom() {
		return nil, evalErr("rest of non-cons", args[0])
	}
	if err := m.charge(restCost); err != nil {
		return nil, err
	}
	return args[0].right, nil
}

func opListpFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opListp, args, 1, node); err != nil {
		return nil, err
	}
	if err := m.charge(listpCost); err != nil {
		return nil, err
	}
	return boolAtom(args[0].IsPair()), nil
}

func opRaiseFn(_ *machine, args []*Program, _ *Program) (*Program, error) {
	if len(args) == 1 && args[0].IsAtom() {
		return nil, evalErr("clvm raise", args[0])
	}
	return nil, evalErr("clvm raise", List(args...))
}

func opEqFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opEq, args, 2, node); err != nil {
		return nil, err
	}
	a, total, err := atoms(opEq, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(eqBase + eqPerByte*total)); err != nil {
		return nil, err
	}
	return boolAtom(bytes.Equal(a[0], a[1])), nil
}

func opGrBytesFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opGrBytes, args, 2, node); err != nil {
		return nil, err
	}
	a, total, err := atoms(opGrBytes, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(grsBase + grsPerByte*total)); err != nil {
		return nil, err
	}
	return boolAtom(bytes.Compare(a[0], a[1]) > 0), nil
}

func opSha256Fn(m *machine, args []*Program, _ *Program) (*Program, error) {
	a, total, err := atoms(opSha256, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(sha256Base + sha256PerArg*len(a) + sha256PerByte*total)); err != nil {
		return nil, err
	}
	h := sha256.New()
	for _, b := range a {
		h.Write(b)
	}
	return m.alloc(h.Sum(nil))
}

func opSubstrFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, evalErr("substr takes exactly 2 or 3 arguments", node)
	}
	if args[0].IsPair() {
		return nil, evalErr("substr on list", args[0])
	}
	s := args[0].atom
	bound := func(p *Program) (int, error) {
		n, ok := p.AsInt()
		if !ok || !n.IsInt64() || n.Sign() < 0 || n.Int64() > int64(len(s)) {
			return 0, evalErr("invalid indices for substr", node)
		}
		return int(n.Int64()), nil
	}
	start, err := bound(args[1])
	if err != nil {
		return nil, err
	}
	end := len(s)
	if len(args) == 3 {
		if end, err = bound(args[2]); err != nil {
			return nil, err
		}
	}
	if end < start {
		return nil, evalErr("invalid indices for substr", node)
	}
	if err := m.charge(substrCost); err != nil {
		return nil, err
	}
	return atomNoCopy(s[start:end]), nil
}

func opStrlenFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opStrlen, args, 1, node); err != nil {
		return nil, err
	}
	a, total, err := atoms(opStrlen, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(strlenBase + strlenPerByte*total)); err != nil {
		return nil, err
	}
	return m.alloc(IntToBytes(big.NewInt(int64(len(a[0])))))
}

func opConcatFn(m *machine, args []*Program, _ *Program) (*Program, error) {
	a, total, err := atoms(opConcat, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(concatBase + concatPerArg*len(a) + concatPerByte*total)); err != nil {
		return nil, err
	}
	return m.alloc(bytes.Join(a, nil))
}

func opAddFn(m *machine, args []*Program, _ *Program) (*Program, error) {
	n, total, err := ints(opAdd, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(arithBase + arithPerArg*len(n) + arithPerByte*total)); err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for _, v := range n {
		sum.Add(sum, v)
	}
	return m.alloc(IntToBytes(sum))
}

func opSubFn(m *machine, args []*Program, _ *Program) (*Program, error) {
	n, total, err := ints(opSub, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(arithBase + arithPerArg*len(n) + arithPerByte*total)); err != nil {
		return nil, err
	}
	diff := new(big.Int)
	for i, v := range n {
		if i == 0 {
			diff.Set(v)
			continue
		}
		diff.Sub(diff, v)
	}
	return m.alloc(IntToBytes(diff))
}

func opMulFn(m *machine, args []*Program, _ *Program) (*Program, error) {
	n, _, err := ints(opMul, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(mulBase); err != nil {
		return nil, err
	}
	if len(n) == 0 {
		return m.alloc(IntToBytes(big.NewInt(1)))
	}
	prod := new(big.Int).Set(n[0])
	for i, v := range n[1:] {
		ls := len(IntToBytes(prod))
		rs := len(args[i+1].atom)
		c := mulPerOp + (ls+rs)*mulLinearByte + (ls*rs)/mulSquareDivide
		if err := m.charge(uint64(c)); err != nil {
			return nil, err
		}
		prod.Mul(prod, v)
	}
	return m.alloc(IntToBytes(prod))
}

func opGrFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opGr, args, 2, node); err != nil {
		return nil, err
	}
	n, total, err := ints(opGr, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(grBase + grPerByte*total)); err != nil {
		return nil, err
	}
	return boolAtom(n[0].Cmp(n[1]) > 0), nil
}

func opPointAddFn(m *machine, args []*Program, _ *Program) (*Program, error) {
	a, _, err := atoms(opPointAdd, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(pointAddBase + pointAddPerArg*len(a))); err != nil {
		return nil, err
	}
	sum := bls.PublicKeyFromScalar(new(big.Int))
	for i, b := range a {
		p, err := bls.PublicKeyFromBytes(b)
		if err != nil {
			return nil, evalErr("point_add expects blob of 48 bytes", args[i])
		}
		sum = sum.Add(p)
	}
	return m.alloc(sum.Bytes())
}

func opPubkeyForExpFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opPubkeyForExp, args, 1, node); err != nil {
		return nil, err
	}
	n, total, err := ints(opPubkeyForExp, args)
	if err != nil {
		return nil, err
	}
	if err := m.charge(uint64(pubkeyBase + pubkeyPerByte*total)); err != nil {
		return nil, err
	}
	return m.alloc(bls.PublicKeyFromScalar(n[0]).Bytes())
}

func opNotFn(m *machine, args []*Program, node *Program) (*Program, error) {
	if err := wantArgs(opNot, args, 1, node); err != nil {
		return nil, err
	}
	if err := m.charge(boolBase + boolPerArg); err != nil {
		return nil, err
	}
	return boolAtom(args[0].IsNil()), nil
}

func opAnyFn(m *machine, args []*Program, _ *Program) (*Program, error) {
	if err := m.charge(uint64(boolBase + boolPerArg*len(args))); err != nil {
		return nil, err
	}
	for _, a := range args {
		if !a.IsNil() {
			return one, nil
		}
	}
	return Nil, nil
}

func opAllFn(m *machine, args []*Program, _ *Program) (*Program, error) {
	if err := m.charge(uint64(boolBase + boolPerArg*len(args))); err != nil {
		return nil, err
	}
	for _, a := range args {
		if a.IsNil() {
			return Nil, nil
		}
	}
	return one, nil
}
