// Package keys walks BLS12-381 derivation paths and computes synthetic keys.
//
// Derivation is unhardened throughout, so every public-key operation has a
// private-key counterpart that yields the matching key pair:
//
//	DerivePath(sk.PublicKey(), p)         == DerivePrivatePath(sk, p).PublicKey()
//	SyntheticPublicKey(sk.PublicKey(), h) == SyntheticPrivateKey(sk, h).PublicKey()
package keys
