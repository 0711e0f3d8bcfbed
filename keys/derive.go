package keys

import (
	"fmt"
	"strconv"
	"strings"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/bls"
)

// Path is an ordered list of unhardened child indices. The empty path is the
// identity.
type Path []uint32

const (
	purposeBLS = 12381
	coinType   = 8444
	// observerBranch is the unhardened wallet branch.
	observerBranch = 2
)

// WalletPath returns m/12381/8444/2/index.
func WalletPath(index uint32) Path {
	return Path{purposeBLS, coinType, observerBranch, index}
}

// String renders p as m/i/j/...
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range p {
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	return b.String()
}

// ParsePath accepts "m", "m/12381/8444/2/0" or the same indices without the
// leading "m/". Hardened markers are rejected.
func ParsePath(s string) (Path, error) {
	const op = "keys.ParsePath"
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "m")
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H") {
			return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, op,
				fmt.Sprintf("hardened index %q cannot be derived from a public key", part))
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, addrerr.Wrap(addrerr.KindInvalidKeyMaterial, op,
				fmt.Sprintf("invalid path index %q", part), err)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// DerivePath applies one unhardened child step per index, left to right.
func DerivePath(root *bls.PublicKey, path Path) (*bls.PublicKey, error) {
	if root == nil {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, "keys.DerivePath", "missing root public key")
	}
	pk := root
	for _, idx := range path {
		pk = bls.DeriveChildPublicKeyUnhardened(pk, idx)
	}
	return pk, nil
}

// DerivePrivatePath is DerivePath for private keys.
func DerivePrivatePath(root *bls.PrivateKey, path Path) (*bls.PrivateKey, error) {
	if root == nil {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, "keys.DerivePrivatePath", "missing root private key")
	}
	sk := root
	for _, idx := range path {
		sk = bls.DeriveChildPrivateKeyUnhardened(sk, idx)
	}
	return sk, nil
}
