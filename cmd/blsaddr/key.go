package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"xdao.co/blsaddr/bls"
	"xdao.co/blsaddr/keys"
)

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}

	switch args[0] {
	case "from-mnemonic":
		return cmdKeyFromMnemonic(args[1:], out, errOut)
	case "from-seed":
		return cmdKeyFromSeed(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  blsaddr key from-mnemonic [--passphrase <p>] [--path m/12381/8444/2/0] <word> ...")
	fmt.Fprintln(w, "  blsaddr key from-seed [--path m/12381/8444/2/0] <seed-hex>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Prints the master key and the key at --path as JSON. Private keys are included.")
}

type keyPair struct {
	Master keys.KeyInfo `json:"master"`
	Leaf   keys.KeyInfo `json:"leaf"`
}

func cmdKeyFromMnemonic(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key from-mnemonic", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var passphrase, pathStr string
	fs.StringVar(&passphrase, "passphrase", "", "BIP-39 passphrase")
	fs.StringVar(&pathStr, "path", keys.WalletPath(0).String(), "Derivation path (unhardened)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: blsaddr key from-mnemonic [flags] <word> ...")
		return 2
	}
	logger := newLogger(errOut, false)

	seed, err := bls.SeedFromMnemonic(strings.Join(fs.Args(), " "), passphrase)
	if err != nil {
		return reportInvalid(errOut, logger, "mnemonic", err)
	}
	return printKeyPair(seed, pathStr, out, errOut)
}

func cmdKeyFromSeed(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key from-seed", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var pathStr string
	fs.StringVar(&pathStr, "path", keys.WalletPath(0).String(), "Derivation path (unhardened)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: blsaddr key from-seed [--path <p>] <seed-hex>")
		return 2
	}

	seed, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(fs.Arg(0)), "0x"))
	if err != nil {
		return reportInvalid(errOut, newLogger(errOut, false), "seed", err)
	}
	return printKeyPair(seed, pathStr, out, errOut)
}

func printKeyPair(seed []byte, pathStr string, out io.Writer, errOut io.Writer) int {
	logger := newLogger(errOut, false)
	path, err := keys.ParsePath(pathStr)
	if err != nil {
		return reportInvalid(errOut, logger, "derivation path", err)
	}
	master, err := bls.KeyGen(seed)
	if err != nil {
		return reportInvalid(errOut, logger, "seed", err)
	}
	leaf, err := keys.DerivePrivatePath(master, path)
	if err != nil {
		return reportInvalid(errOut, logger, "key format", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(keyPair{
		Master: keys.ExportPrivate(nil, master),
		Leaf:   keys.ExportPrivate(path, leaf),
	}); err != nil {
		fmt.Fprintf(errOut, "write: %v\n", err)
		return 1
	}
	return 0
}
