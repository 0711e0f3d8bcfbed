package clvm

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	consBox  = 0xff
	nilByte  = 0x80
	maxDepth = 1 << 16
)

// Serialize returns the canonical CLVM byte encoding of p.
func Serialize(p *Program) []byte {
	var buf bytes.Buffer
	writeProgram(&buf, p)
	return buf.Bytes()
}

// Hex returns the serialization of p in lowercase hex.
func Hex(p *Program) string {
	return hex.EncodeToString(Serialize(p))
}

func writeProgram(buf *bytes.Buffer, p *Program) {
	for p.IsPair() {
		buf.WriteByte(consBox)
		writeProgram(buf, p.left)
		p = p.right
	}
	writeAtom(buf, p.atom)
}

func writeAtom(buf *bytes.Buffer, a []byte) {
	n := len(a)
	switch {
	case n == 0:
		buf.WriteByte(nilByte)
		return
	case n == 1 && a[0] <= 0x7f:
		buf.WriteByte(a[0])
		return
	case n < 0x40:
		buf.WriteByte(0x80 | byte(n))
	case n < 0x2000:
		buf.Write([]byte{0xc0 | byte(n>>8), byte(n)})
	case n < 0x100000:
		buf.Write([]byte{0xe0 | byte(n>>16), byte(n >> 8), byte(n)})
	case n < 0x8000000:
		buf.Write([]byte{0xf0 | byte(n>>24), byte(n >> 16), byte(n >> 8), byte(n)})
	default:
		buf.Write([]byte{0xf8 | byte(n>>32), byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	}
	buf.Write(a)
}

// Deserialize parses exactly one program from b. Trailing bytes are an error.
func Deserialize(b []byte) (*Program, error) {
	r := bytes.NewReader(b)
	p, err := readProgram(r, 0)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadEncoding, r.Len())
	}
	return p, nil
}

// DeserializeHex is Deserialize over a hex string. A leading "0x" is ignored.
func DeserializeHex(s string) (*Program, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}
	return Deserialize(b)
}

// MustDeserializeHex panics on malformed input. It is meant for package-level
// constants.
func MustDeserializeHex(s string) *Program {
	p, err := DeserializeHex(s)
	if err != nil {
		panic(err)
	}
	return p
}

func readProgram(r *bytes.Reader, depth int) (*Program, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting too deep", ErrBadEncoding)
	}
	b, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrBadEncoding)
	}
	if b == consBox {
		first, err := readProgram(r, depth+1)
		if err != nil {
			return nil, err
		}
		rest, err := readProgram(r, depth+1)
		if err != nil {
			return nil, err
		}
		return Cons(first, rest), nil
	}
	return readAtom(r, b)
}

func readAtom(r *bytes.Reader, b byte) (*Program, error) {
	if b == nilByte {
		return Nil, nil
	}
	if b <= 0x7f {
		return &Program{atom: []byte{b}}, nil
	}

	prefix := 0
	for mask := byte(0x80); b&mask != 0; mask >>= 1 {
		prefix++
		b &^= mask
	}
	if prefix > 5 {
		return nil, fmt.Errorf("%w: atom length prefix too long", ErrBadEncoding)
	}
	size := uint64(b)
	for i := 1; i < prefix; i++ {
		next, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated atom length", ErrBadEncoding)
		}
		size = size<<8 | uint64(next)
	}
	if size > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: atom length %d exceeds input", ErrBadEncoding, size)
	}
	a := make([]byte, size)
	if _, err := io.ReadFull(r, a); err != nil {
		return nil, fmt.Errorf("%w: truncated atom", ErrBadEncoding)
	}
	return atomNoCopy(a), nil
}
