package grpcenc

import (
	"context"
	"encoding/hex"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/address"
	"xdao.co/blsaddr/encoder"
	"xdao.co/blsaddr/keys"
)

// Request and reply field names.
const (
	FieldMasterPublicKey  = "master_public_key"
	FieldPath             = "path"
	FieldPrefix           = "prefix"
	FieldSynthetic        = "synthetic"
	FieldHiddenPuzzleHash = "hidden_puzzle_hash"
	FieldPayload          = "payload"

	FieldMode         = "mode"
	FieldPublicKey    = "public_key"
	FieldSyntheticKey = "synthetic_key"
	FieldPuzzleHash   = "puzzle_hash"
	FieldRevealCID    = "reveal_cid"
	FieldAddress      = "address"
	FieldHash         = "hash"
	FieldKind         = "kind"
)

// Server exposes package encoder over the Encoder gRPC service.
//
// Derive takes master_public_key (hex, required), path, prefix, synthetic
// and hidden_puzzle_hash (hex); unset fields come from Defaults. Encode takes
// payload (hex) and prefix. Decode takes an address and replies with prefix,
// hash and kind.
type Server struct {
	UnimplementedEncoderServer

	// Defaults fills fields a request leaves unset.
	Defaults encoder.Options
}

func (s *Server) Derive(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	_ = ctx
	fields := in.GetFields()

	master, err := stringField(fields, FieldMasterPublicKey)
	if err != nil {
		return nil, err
	}
	if master == "" {
		return nil, status.Error(codes.InvalidArgument, "missing "+FieldMasterPublicKey)
	}

	opts := s.Defaults
	if p, err := stringField(fields, FieldPath); err != nil {
		return nil, err
	} else if p != "" {
		path, err := keys.ParsePath(p)
		if err != nil {
			return nil, mapErr(err)
		}
		opts.Path = path
	}
	if p, err := stringField(fields, FieldPrefix); err != nil {
		return nil, err
	} else if p != "" {
		opts.Prefix = p
	}
	if v, ok := fields[FieldSynthetic]; ok {
		b, isBool := v.GetKind().(*structpb.Value_BoolValue)
		if !isBool {
			return nil, status.Error(codes.InvalidArgument, FieldSynthetic+" must be a bool")
		}
		opts.Mode = encoder.ModePublicKey
		if b.BoolValue {
			opts.Mode = encoder.ModeSynthetic
		}
	}
	if h, err := stringField(fields, FieldHiddenPuzzleHash); err != nil {
		return nil, err
	} else if h != "" {
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, mapErr(addrerr.Wrap(addrerr.KindInvalidKeyMaterial, "grpcenc.Derive", "malformed hidden puzzle hash", err))
		}
		opts.HiddenPuzzleHash = b
	}

	d, err := encoder.Derive(master, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	return derivationStruct(d)
}

func (s *Server) Encode(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	fields := in.GetFields()
	payloadHex, err := stringField(fields, FieldPayload)
	if err != nil {
		return nil, err
	}
	payload, err := hex.DecodeString(payloadHex)
	if err != nil {
		return nil, mapErr(addrerr.Wrap(addrerr.KindInvalidKeyMaterial, "grpcenc.Encode", "malformed payload", err))
	}
	prefix, err := stringField(fields, FieldPrefix)
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = s.Defaults.Prefix
	}
	if prefix == "" {
		prefix = address.DefaultPrefix
	}
	addr, err := address.Encode(payload, prefix)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(addr), nil
}

func (s *Server) Decode(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	_ = ctx
	info, err := address.Inspect(in.GetValue())
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := structpb.NewStruct(map[string]interface{}{
		FieldPrefix: info.Prefix,
		FieldHash:   info.Hex,
		FieldKind:   string(info.Kind),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func derivationStruct(d *encoder.Derivation) (*structpb.Struct, error) {
	m := map[string]interface{}{
		FieldPath:      d.Path.String(),
		FieldMode:      d.Mode.String(),
		FieldPublicKey: d.PublicKey.Hex(),
		FieldPayload:   hex.EncodeToString(d.Payload),
		FieldPrefix:    d.Prefix,
		FieldAddress:   d.Address,
	}
	if d.SyntheticKey != nil {
		m[FieldSyntheticKey] = d.SyntheticKey.Hex()
		m[FieldPuzzleHash] = hex.EncodeToString(d.PuzzleHash)
		m[FieldRevealCID] = d.RevealCID.String()
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func stringField(fields map[string]*structpb.Value, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Error(codes.InvalidArgument, fmt.Sprintf("%s must be a string", name))
	}
	return sv.StringValue, nil
}
