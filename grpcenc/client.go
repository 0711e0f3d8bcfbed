package grpcenc

import (
	"context"
	"encoding/hex"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/blsaddr/encoder"
)

// Client calls a remote Encoder service. Errors carrying an address error
// kind come back as *addrerr.Error.
type Client struct {
	cc     *grpc.ClientConn
	client EncoderClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an existing connection.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewEncoderClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// DeriveRequest mirrors encoder.Options for the wire. A nil Synthetic leaves
// the choice to the server's defaults.
type DeriveRequest struct {
	MasterPublicKey  string
	Path             string
	Prefix           string
	Synthetic        *bool
	HiddenPuzzleHash []byte
}

// DeriveReply is the decoded Derive response.
type DeriveReply struct {
	Path         string
	Mode         string
	PublicKey    string
	SyntheticKey string
	PuzzleHash   string
	RevealCID    string
	Payload      string
	Prefix       string
	Address      string
}

func (c *Client) Derive(req DeriveRequest) (*DeriveReply, error) {
	m := map[string]interface{}{FieldMasterPublicKey: req.MasterPublicKey}
	if req.Path != "" {
		m[FieldPath] = req.Path
	}
	if req.Prefix != "" {
		m[FieldPrefix] = req.Prefix
	}
	if req.Synthetic != nil {
		m[FieldSynthetic] = *req.Synthetic
	}
	if req.HiddenPuzzleHash != nil {
		m[FieldHiddenPuzzleHash] = hex.EncodeToString(req.HiddenPuzzleHash)
	}
	in, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.ctx()
	defer cancel()

	out, err := c.client.Derive(ctx, in)
	if err != nil {
		return nil, mapRPC(err)
	}
	f := out.GetFields()
	return &DeriveReply{
		Path:         f[FieldPath].GetStringValue(),
		Mode:         f[FieldMode].GetStringValue(),
		PublicKey:    f[FieldPublicKey].GetStringValue(),
		SyntheticKey: f[FieldSyntheticKey].GetStringValue(),
		PuzzleHash:   f[FieldPuzzleHash].GetStringValue(),
		RevealCID:    f[FieldRevealCID].GetStringValue(),
		Payload:      f[FieldPayload].GetStringValue(),
		Prefix:       f[FieldPrefix].GetStringValue(),
		Address:      f[FieldAddress].GetStringValue(),
	}, nil
}

// MasterKeyToAddress is encoder.MasterKeyToAddress over the wire.
func (c *Client) MasterKeyToAddress(masterPublicKeyHex, path, prefix string, mode encoder.Mode, hiddenPuzzleHash []byte) (string, error) {
	synthetic := mode == encoder.ModeSynthetic
	reply, err := c.Derive(DeriveRequest{
		MasterPublicKey:  masterPublicKeyHex,
		Path:             path,
		Prefix:           prefix,
		Synthetic:        &synthetic,
		HiddenPuzzleHash: hiddenPuzzleHash,
	})
	if err != nil {
		return "", err
	}
	return reply.Address, nil
}

func (c *Client) Encode(payload []byte, prefix string) (string, error) {
	in, err := structpb.NewStruct(map[string]interface{}{
		FieldPayload: hex.EncodeToString(payload),
		FieldPrefix:  prefix,
	})
	if err != nil {
		return "", err
	}
	ctx, cancel := c.ctx()
	defer cancel()

	out, err := c.client.Encode(ctx, in)
	if err != nil {
		return "", mapRPC(err)
	}
	return out.GetValue(), nil
}

// Decode returns the payload and prefix of addr.
func (c *Client) Decode(addr string) ([]byte, string, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	out, err := c.client.Decode(ctx, wrapperspb.String(addr))
	if err != nil {
		return nil, "", mapRPC(err)
	}
	f := out.GetFields()
	payload, err := hex.DecodeString(f[FieldHash].GetStringValue())
	if err != nil {
		return nil, "", err
	}
	return payload, f[FieldPrefix].GetStringValue(), nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
