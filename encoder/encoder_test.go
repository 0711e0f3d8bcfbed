package encoder

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/cidutil"
	"xdao.co/blsaddr/clvm"
	"xdao.co/blsaddr/keys"
	"xdao.co/blsaddr/puzzles"
)

const (
	masterPKHex = "b3dc963ef53ae9b6d83ce417c5d417a9f6cc46beaa5fcf74dc59f190c6e9c513e1f57a124a0ef8b6836e4c8928125500"

	walletAddress          = "bls12381ez6863mn3gtz50znn7c3l2y82k2vv4rpkd0h9vlukz07nrzn834sn9g0d3"
	legacyAddress          = "bls1238149w2xly3xaysmsatnxr4laxxh46w3te2rz7eydyms8696l8787j33zwt8alcs93d0l0z3fdfs3e9zuht4zh"
	masterPublicKeyAddress = "bls12381k0wfv0h48t5mdkpuustut4qh48mvc3474f0u7axut8cep3hfc5f7rat6zf9qa79ksdhyezfgzf2sqe8sx87"
	masterSyntheticAddress = "bls12381mtslwgp4rjvhacm5re8ns2793n3jnphvm2z0mx0rckyum78qt09qfcxee9"
	walletPuzzleHashHex    = "c8b47d47738a162a3c539fb11fa8875594c65461b35f72b3fcb09fe98c533c6b"
	walletSyntheticKeyHex  = "a76017fdce4b8bc04577ce9cd9149b4269e5cc621499df9d24876c14d710fd2d3db233cc5afb92b35ba8b852bc86266d"
	walletLeafPublicKeyHex = "a06897b42cfea1d3499ca8baf60d796228632500262acd4e4fa52754fc692f834cf95cb395ccbb3a72633be6cb02c24a"
)

func TestMasterKeyToAddress(t *testing.T) {
	cases := []struct {
		name      string
		path      keys.Path
		synthetic bool
		want      string
	}{
		{"wallet synthetic", keys.WalletPath(0), true, walletAddress},
		{"legacy child", keys.Path{0}, false, legacyAddress},
		{"master public key", nil, false, masterPublicKeyAddress},
		{"master synthetic", keys.Path{}, true, masterSyntheticAddress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MasterKeyToAddress(masterPKHex, tc.path, "bls1238", tc.synthetic, nil)
			if err != nil {
				t.Fatalf("MasterKeyToAddress: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestMasterKeyToAddressDeterministic(t *testing.T) {
	a, err := MasterKeyToAddress(masterPKHex, nil, "bls1238", true, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		b, err := MasterKeyToAddress(masterPKHex, nil, "bls1238", true, nil)
		if err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Fatalf("run %d: %s != %s", i, b, a)
		}
	}
}

func TestMasterKeyToAddressExplicitDefaultHidden(t *testing.T) {
	got, err := MasterKeyToAddress(masterPKHex, keys.WalletPath(0), "bls1238", true, puzzles.DefaultHiddenPuzzleHash())
	if err != nil {
		t.Fatal(err)
	}
	if got != walletAddress {
		t.Fatalf("got %s, want %s", got, walletAddress)
	}

	other := make([]byte, 32)
	got, err = MasterKeyToAddress(masterPKHex, keys.WalletPath(0), "bls1238", true, other)
	if err != nil {
		t.Fatal(err)
	}
	if got == walletAddress {
		t.Fatal("hidden puzzle hash did not affect the address")
	}
}

func TestMasterKeyToAddressInvalidInput(t *testing.T) {
	cases := map[string]string{
		"short hex":    masterPKHex[:95],
		"truncated":    masterPKHex[:64],
		"not hex":      strings.Repeat("g", 96),
		"bad infinity": "c0" + strings.Repeat("00", 46) + "01",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := MasterKeyToAddress(in, nil, "bls1238", true, nil)
			if !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
				t.Fatalf("expected InvalidKeyMaterial, got %v", err)
			}
		})
	}

	_, err := MasterKeyToAddress(masterPKHex, nil, "bls1238", true, []byte{1, 2, 3})
	if !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("short hidden hash: expected InvalidKeyMaterial, got %v", err)
	}

	_, err = MasterKeyToAddress(masterPKHex, nil, "", true, nil)
	if !addrerr.IsKind(err, addrerr.KindChecksumMismatch) {
		t.Fatalf("empty prefix: expected ChecksumMismatch, got %v", err)
	}
}

func TestDeriveUnknownMode(t *testing.T) {
	_, err := Derive(masterPKHex, Options{Mode: Mode(7)})
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	_, err = DeriveBatch(context.Background(), masterPKHex, Options{Mode: Mode(7)}, []uint32{0, 1})
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("batch: expected ErrUnknownMode, got %v", err)
	}
}

func TestDerive(t *testing.T) {
	d, err := Derive("0x"+masterPKHex, Options{Path: keys.WalletPath(0)})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.Mode != ModeSynthetic || d.Prefix != "bls1238" {
		t.Fatalf("defaults not applied: %+v", d)
	}
	if d.PublicKey.Hex() != walletLeafPublicKeyHex {
		t.Fatalf("leaf = %s", d.PublicKey.Hex())
	}
	if d.SyntheticKey.Hex() != walletSyntheticKeyHex {
		t.Fatalf("synthetic = %s", d.SyntheticKey.Hex())
	}
	if hex.EncodeToString(d.PuzzleHash) != walletPuzzleHashHex {
		t.Fatalf("puzzle hash = %x", d.PuzzleHash)
	}
	if d.Address != walletAddress {
		t.Fatalf("address = %s", d.Address)
	}
	if err := cidutil.Verify(d.RevealCID.String(), clvm.Serialize(d.PuzzleReveal)); err != nil {
		t.Fatalf("reveal CID: %v", err)
	}
}

func TestDerivePublicKeyMode(t *testing.T) {
	d, err := Derive(masterPKHex, Options{Path: keys.Path{0}, Mode: ModePublicKey})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.SyntheticKey != nil || d.PuzzleReveal != nil || d.PuzzleHash != nil {
		t.Fatal("synthetic fields set in public-key mode")
	}
	if len(d.Payload) != 48 || d.Address != legacyAddress {
		t.Fatalf("unexpected derivation %+v", d)
	}
}

func TestDeriveBatch(t *testing.T) {
	base := keys.Path{12381, 8444, 2}
	indices := []uint32{0, 1, 2, 7}
	got, err := DeriveBatch(context.Background(), masterPKHex, Options{Path: base}, indices)
	if err != nil {
		t.Fatalf("DeriveBatch: %v", err)
	}
	if len(got) != len(indices) {
		t.Fatalf("got %d results", len(got))
	}
	if got[0].Address != walletAddress {
		t.Fatalf("index 0 address = %s", got[0].Address)
	}
	seen := map[string]bool{}
	for i, idx := range indices {
		one, err := Derive(masterPKHex, Options{Path: keys.WalletPath(idx)})
		if err != nil {
			t.Fatal(err)
		}
		if got[i].Address != one.Address || got[i].Path.String() != keys.WalletPath(idx).String() {
			t.Fatalf("index %d: batch %s (%s), single %s", idx, got[i].Address, got[i].Path, one.Address)
		}
		if seen[one.Address] {
			t.Fatalf("duplicate address for index %d", idx)
		}
		seen[one.Address] = true
	}
	if len(base) != 3 {
		t.Fatal("DeriveBatch modified the base path")
	}
}

func TestDeriveBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DeriveBatch(ctx, masterPKHex, Options{}, []uint32{0, 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDeriveBatchInvalidKey(t *testing.T) {
	_, err := DeriveBatch(context.Background(), "00", Options{}, []uint32{0})
	if !addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial) {
		t.Fatalf("expected InvalidKeyMaterial, got %v", err)
	}
}
