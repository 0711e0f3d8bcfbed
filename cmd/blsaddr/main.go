package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/address"
	"xdao.co/blsaddr/bls"
	"xdao.co/blsaddr/clvm"
	"xdao.co/blsaddr/encoder"
	"xdao.co/blsaddr/grpcenc"
	"xdao.co/blsaddr/keys"
	"xdao.co/blsaddr/puzzles"
)

const logModule = "cli"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "address":
		return cmdAddress(args[1:], out, errOut)
	case "derive":
		return cmdDerive(args[1:], out, errOut)
	case "encode":
		return cmdEncode(args[1:], out, errOut)
	case "decode":
		return cmdDecode(args[1:], out, errOut)
	case "synthetic":
		return cmdSynthetic(args[1:], out, errOut)
	case "puzzle-hash":
		return cmdPuzzleHash(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "blsaddr: BLS12-381 master public key to address encoder")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  blsaddr address [--path m/12381/8444/2/0] [--prefix bls1238] [--synthetic=true] [--hidden <64hex>] [--remote <host:port>] [-v] <master-pk-hex>")
	fmt.Fprintln(w, "  blsaddr derive [--path m/12381/8444/2] [--start 0] [--count 1] [--prefix bls1238] [--synthetic=true] [--hidden <64hex>] [--json] [-v] <master-pk-hex>")
	fmt.Fprintln(w, "  blsaddr encode [--prefix bls1238] <payload-hex>")
	fmt.Fprintln(w, "  blsaddr decode <address>")
	fmt.Fprintln(w, "  blsaddr synthetic [--hidden <64hex>] (--public-key <96hex> | --private-key <64hex>)")
	fmt.Fprintln(w, "  blsaddr puzzle-hash [--hidden <64hex>] [--reveal] <synthetic-or-leaf-pk-hex>")
	fmt.Fprintln(w, "  blsaddr key from-mnemonic [--passphrase <p>] [--path m/12381/8444/2/0] <word> ...")
	fmt.Fprintln(w, "  blsaddr key from-seed [--path m/12381/8444/2/0] <seed-hex>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --synthetic=false encodes the 48-byte derived public key instead of a puzzle hash")
	fmt.Fprintln(w, "  - the default hidden puzzle hash is "+hex.EncodeToString(puzzles.DefaultHiddenPuzzleHash()))
	fmt.Fprintln(w, "  - puzzle-hash --reveal prints the hidden puzzle reveal too when --hidden is omitted")
	fmt.Fprintln(w, "  - derive appends --start .. --start+--count-1 to --path")
	fmt.Fprintln(w, "  - -v logs the underlying cause of rejected input")
}

func newLogger(errOut io.Writer, verbose bool) *log.Logger {
	logger := log.New()
	logger.SetOutput(errOut)
	logger.SetFormatter(&log.TextFormatter{DisableColors: true, DisableTimestamp: true})
	logger.SetLevel(log.WarnLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// reportInvalid prints the single "invalid input" line and its cause, and
// logs the structured error for -v.
func reportInvalid(errOut io.Writer, logger *log.Logger, what string, err error) int {
	fmt.Fprintf(errOut, "Invalid %s\n", what)
	fmt.Fprintf(errOut, "  cause: %v\n", err)
	logger.WithFields(log.Fields{
		"module": logModule,
		"kind":   string(addrerr.KindOf(err)),
	}).Debug(err)
	return 1
}

func parseHidden(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, addrerr.Wrap(addrerr.KindInvalidKeyMaterial, "blsaddr", "malformed hidden puzzle hash", err)
	}
	if len(b) != keys.HiddenPuzzleHashSize {
		return nil, addrerr.New(addrerr.KindInvalidKeyMaterial, "blsaddr",
			fmt.Sprintf("hidden puzzle hash must be %d bytes, got %d", keys.HiddenPuzzleHashSize, len(b)))
	}
	return b, nil
}

func cmdAddress(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("address", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var pathStr, prefix, hiddenHex, remote string
	var synthetic, verbose bool
	var timeout time.Duration
	fs.StringVar(&pathStr, "path", keys.WalletPath(0).String(), "Derivation path (unhardened)")
	fs.StringVar(&prefix, "prefix", address.DefaultPrefix, "Address prefix")
	fs.BoolVar(&synthetic, "synthetic", true, "Encode the puzzle hash of the synthetic key")
	fs.StringVar(&hiddenHex, "hidden", "", "Hidden puzzle hash (hex); default puzzle when empty")
	fs.StringVar(&remote, "remote", "", "Derive via a blsaddrd gRPC endpoint instead of locally")
	fs.DurationVar(&timeout, "timeout", 5*time.Second, "Per-RPC timeout for --remote")
	fs.BoolVar(&verbose, "v", false, "Log the cause of rejected input")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: blsaddr address [flags] <master-pk-hex>")
		return 2
	}
	logger := newLogger(errOut, verbose)

	path, err := keys.ParsePath(pathStr)
	if err != nil {
		return reportInvalid(errOut, logger, "derivation path", err)
	}
	hidden, err := parseHidden(hiddenHex)
	if err != nil {
		return reportInvalid(errOut, logger, "hidden puzzle hash", err)
	}

	var addr string
	if remote != "" {
		client, err := grpcenc.Dial(remote, grpcenc.DialOptions{Timeout: timeout})
		if err != nil {
			fmt.Fprintf(errOut, "dial %s: %v\n", remote, err)
			return 1
		}
		defer client.Close()
		client.Timeout = timeout

		mode := encoder.ModePublicKey
		if synthetic {
			mode = encoder.ModeSynthetic
		}
		addr, err = client.MasterKeyToAddress(fs.Arg(0), path.String(), prefix, mode, hidden)
		if err != nil {
			if addrerr.KindOf(err) == "" {
				fmt.Fprintf(errOut, "remote: %v\n", err)
				return 1
			}
			return reportInvalid(errOut, logger, "key format", err)
		}
	} else {
		addr, err = encoder.MasterKeyToAddress(fs.Arg(0), path, prefix, synthetic, hidden)
		if err != nil {
			return reportInvalid(errOut, logger, "key format", err)
		}
	}
	_, _ = fmt.Fprintln(out, addr)
	return 0
}

type derivationJSON struct {
	Path         string `json:"path"`
	Mode         string `json:"mode"`
	PublicKey    string `json:"public_key"`
	SyntheticKey string `json:"synthetic_key,omitempty"`
	PuzzleHash   string `json:"puzzle_hash,omitempty"`
	PuzzleReveal string `json:"puzzle_reveal,omitempty"`
	RevealCID    string `json:"reveal_cid,omitempty"`
	Address      string `json:"address"`
}

func toJSON(d *encoder.Derivation) derivationJSON {
	j := derivationJSON{
		Path:      d.Path.String(),
		Mode:      d.Mode.String(),
		PublicKey: d.PublicKey.Hex(),
		Address:   d.Address,
	}
	if d.SyntheticKey != nil {
		j.SyntheticKey = d.SyntheticKey.Hex()
		j.PuzzleHash = hex.EncodeToString(d.PuzzleHash)
		j.PuzzleReveal = clvm.Hex(d.PuzzleReveal)
		j.RevealCID = d.RevealCID.String()
	}
	return j
}

func cmdDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var pathStr, prefix, hiddenHex string
	var start, count uint
	var synthetic, asJSON, verbose bool
	fs.StringVar(&pathStr, "path", "m/12381/8444/2", "Base derivation path; indices are appended")
	fs.UintVar(&start, "start", 0, "First index")
	fs.UintVar(&count, "count", 1, "Number of consecutive indices")
	fs.StringVar(&prefix, "prefix", address.DefaultPrefix, "Address prefix")
	fs.BoolVar(&synthetic, "synthetic", true, "Encode the puzzle hash of the synthetic key")
	fs.StringVar(&hiddenHex, "hidden", "", "Hidden puzzle hash (hex); default puzzle when empty")
	fs.BoolVar(&asJSON, "json", false, "Print one JSON object per derivation")
	fs.BoolVar(&verbose, "v", false, "Log the cause of rejected input")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || count == 0 || uint64(start)+uint64(count) > 1<<32 {
		fmt.Fprintln(errOut, "usage: blsaddr derive [flags] <master-pk-hex>")
		return 2
	}
	logger := newLogger(errOut, verbose)

	path, err := keys.ParsePath(pathStr)
	if err != nil {
		return reportInvalid(errOut, logger, "derivation path", err)
	}
	hidden, err := parseHidden(hiddenHex)
	if err != nil {
		return reportInvalid(errOut, logger, "hidden puzzle hash", err)
	}
	opts := encoder.Options{Path: path, Prefix: prefix, HiddenPuzzleHash: hidden}
	if !synthetic {
		opts.Mode = encoder.ModePublicKey
	}

	indices := make([]uint32, count)
	for i := range indices {
		indices[i] = uint32(start) + uint32(i)
	}
	ds, err := encoder.DeriveBatch(context.Background(), fs.Arg(0), opts, indices)
	if err != nil {
		return reportInvalid(errOut, logger, "key format", err)
	}

	enc := json.NewEncoder(out)
	for _, d := range ds {
		if asJSON {
			if err := enc.Encode(toJSON(d)); err != nil {
				fmt.Fprintf(errOut, "write: %v\n", err)
				return 1
			}
			continue
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", d.Path, d.Address)
	}
	return 0
}

func cmdEncode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var prefix string
	fs.StringVar(&prefix, "prefix", address.DefaultPrefix, "Address prefix")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: blsaddr encode [--prefix <p>] <payload-hex>")
		return 2
	}
	logger := newLogger(errOut, false)

	payload, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(fs.Arg(0)), "0x"))
	if err != nil {
		return reportInvalid(errOut, logger, "payload", err)
	}
	addr, err := address.Encode(payload, prefix)
	if err != nil {
		return reportInvalid(errOut, logger, "payload", err)
	}
	_, _ = fmt.Fprintln(out, addr)
	return 0
}

func cmdDecode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: blsaddr decode <address>")
		return 2
	}
	info, err := address.Inspect(strings.TrimSpace(fs.Arg(0)))
	if err != nil {
		return reportInvalid(errOut, newLogger(errOut, false), "address", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		fmt.Fprintf(errOut, "write: %v\n", err)
		return 1
	}
	return 0
}

func cmdSynthetic(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("synthetic", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var pkHex, skHex, hiddenHex string
	fs.StringVar(&pkHex, "public-key", "", "Leaf public key (hex)")
	fs.StringVar(&skHex, "private-key", "", "Leaf private key (hex)")
	fs.StringVar(&hiddenHex, "hidden", "", "Hidden puzzle hash (hex); default puzzle when empty")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if (pkHex == "") == (skHex == "") || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: blsaddr synthetic [--hidden <64hex>] (--public-key <96hex> | --private-key <64hex>)")
		return 2
	}
	logger := newLogger(errOut, false)

	hidden, err := parseHidden(hiddenHex)
	if err != nil {
		return reportInvalid(errOut, logger, "hidden puzzle hash", err)
	}
	if hidden == nil {
		hidden = puzzles.DefaultHiddenPuzzleHash()
	}

	if pkHex != "" {
		pk, err := bls.PublicKeyFromHex(pkHex)
		if err != nil {
			return reportInvalid(errOut, logger, "key format", err)
		}
		syn, err := keys.SyntheticPublicKey(pk, hidden)
		if err != nil {
			return reportInvalid(errOut, logger, "key format", err)
		}
		_, _ = fmt.Fprintln(out, syn.Hex())
		return 0
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(skHex), "0x"))
	if err != nil {
		return reportInvalid(errOut, logger, "key format", err)
	}
	sk, err := bls.PrivateKeyFromBytes(raw)
	if err != nil {
		return reportInvalid(errOut, logger, "key format", err)
	}
	syn, err := keys.SyntheticPrivateKey(sk, hidden)
	if err != nil {
		return reportInvalid(errOut, logger, "key format", err)
	}
	_, _ = fmt.Fprintln(out, syn.Hex())
	return 0
}

func cmdPuzzleHash(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("puzzle-hash", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var hiddenHex string
	var reveal, already bool
	fs.StringVar(&hiddenHex, "hidden", "", "Hidden puzzle hash (hex); default puzzle when empty")
	fs.BoolVar(&already, "synthetic-key", false, "The argument is already a synthetic key")
	fs.BoolVar(&reveal, "reveal", false, "Also print the serialized puzzle reveal, and the hidden puzzle when it is the default")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: blsaddr puzzle-hash [--hidden <64hex>] [--synthetic-key] [--reveal] <pk-hex>")
		return 2
	}
	logger := newLogger(errOut, false)

	pk, err := bls.PublicKeyFromHex(fs.Arg(0))
	if err != nil {
		return reportInvalid(errOut, logger, "key format", err)
	}
	syn := pk
	var hiddenReveal *clvm.Program
	if !already {
		hidden, err := parseHidden(hiddenHex)
		if err != nil {
			return reportInvalid(errOut, logger, "hidden puzzle hash", err)
		}
		if hidden == nil {
			hidden = puzzles.DefaultHiddenPuzzleHash()
			hiddenReveal = puzzles.DefaultHiddenPuzzle()
		}
		if syn, err = keys.SyntheticPublicKey(pk, hidden); err != nil {
			return reportInvalid(errOut, logger, "key format", err)
		}
	}

	h := puzzles.PuzzleHashForSyntheticKey(syn.Bytes())
	_, _ = fmt.Fprintln(out, hex.EncodeToString(h[:]))
	if reveal {
		_, _ = fmt.Fprintln(out, clvm.Hex(puzzles.PuzzleForSyntheticKey(syn.Bytes())))
		if hiddenReveal != nil {
			_, _ = fmt.Fprintln(out, clvm.Hex(hiddenReveal))
		}
	}
	return 0
}
