package grpcenc

import (
	"context"
	"encoding/hex"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"xdao.co/blsaddr/addrerr"
	"xdao.co/blsaddr/encoder"
)

const (
	masterPKHex    = "b3dc963ef53ae9b6d83ce417c5d417a9f6cc46beaa5fcf74dc59f190c6e9c513e1f57a124a0ef8b6836e4c8928125500"
	walletAddress  = "bls12381ez6863mn3gtz50znn7c3l2y82k2vv4rpkd0h9vlukz07nrzn834sn9g0d3"
	legacyAddress  = "bls1238149w2xly3xaysmsatnxr4laxxh46w3te2rz7eydyms8696l8787j33zwt8alcs93d0l0z3fdfs3e9zuht4zh"
	puzzleHashHex  = "c8b47d47738a162a3c539fb11fa8875594c65461b35f72b3fcb09fe98c533c6b"
	syntheticPKHex = "a76017fdce4b8bc04577ce9cd9149b4269e5cc621499df9d24876c14d710fd2d3db233cc5afb92b35ba8b852bc86266d"
)

func startServer(t *testing.T, srv *Server) (*Client, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogger(logger)))
	RegisterEncoderServer(s, srv)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	dialer := func(ctx context.Context, _ string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })

	client := NewClient(cc)
	client.Timeout = 5 * time.Second
	return client, hook
}

func TestDeriveRoundTrip(t *testing.T) {
	client, hook := startServer(t, &Server{})

	reply, err := client.Derive(DeriveRequest{
		MasterPublicKey: masterPKHex,
		Path:            "m/12381/8444/2/0",
	})
	require.NoError(t, err)
	require.Equal(t, walletAddress, reply.Address)
	require.Equal(t, puzzleHashHex, reply.PuzzleHash)
	require.Equal(t, puzzleHashHex, reply.Payload)
	require.Equal(t, syntheticPKHex, reply.SyntheticKey)
	require.Equal(t, "synthetic", reply.Mode)
	require.Equal(t, "bls1238", reply.Prefix)
	require.NotEmpty(t, reply.RevealCID)

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	require.Equal(t, methodDerive, last.Data["method"])
	require.Equal(t, logModule, last.Data["module"])
	require.Equal(t, logrus.DebugLevel, last.Level)
}

func TestDerivePublicKeyMode(t *testing.T) {
	client, _ := startServer(t, &Server{})

	addr, err := client.MasterKeyToAddress(masterPKHex, "m/0", "bls1238", encoder.ModePublicKey, nil)
	require.NoError(t, err)
	require.Equal(t, legacyAddress, addr)
}

func TestDeriveUsesServerDefaults(t *testing.T) {
	client, _ := startServer(t, &Server{Defaults: encoder.Options{Mode: encoder.ModePublicKey, Prefix: "bls1238"}})

	reply, err := client.Derive(DeriveRequest{MasterPublicKey: masterPKHex, Path: "m/0"})
	require.NoError(t, err)
	require.Equal(t, legacyAddress, reply.Address)
	require.Equal(t, "public-key", reply.Mode)
	require.Empty(t, reply.SyntheticKey)

	synthetic := true
	reply, err = client.Derive(DeriveRequest{MasterPublicKey: masterPKHex, Path: "m/12381/8444/2/0", Synthetic: &synthetic})
	require.NoError(t, err)
	require.Equal(t, walletAddress, reply.Address)
}

func TestEncodeDecode(t *testing.T) {
	client, _ := startServer(t, &Server{})

	payload, err := hex.DecodeString(puzzleHashHex)
	require.NoError(t, err)

	addr, err := client.Encode(payload, "")
	require.NoError(t, err)
	require.Equal(t, walletAddress, addr)

	got, prefix, err := client.Decode(addr)
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.Equal(t, "bls1238", prefix)
}

func TestErrorKindsSurviveTransport(t *testing.T) {
	client, hook := startServer(t, &Server{})

	_, err := client.Derive(DeriveRequest{MasterPublicKey: masterPKHex[:90]})
	require.True(t, addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial), "got %v", err)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	corrupt := walletAddress[:len(walletAddress)-1] + "q"
	_, _, err = client.Decode(corrupt)
	require.True(t, addrerr.IsKind(err, addrerr.KindChecksumMismatch), "got %v", err)

	_, err = client.Derive(DeriveRequest{MasterPublicKey: masterPKHex, Path: "m/1'"})
	require.True(t, addrerr.IsKind(err, addrerr.KindInvalidKeyMaterial), "got %v", err)

	last := hook.LastEntry()
	require.NotNil(t, last)
	require.Equal(t, logrus.WarnLevel, last.Level)
	require.Equal(t, codes.InvalidArgument.String(), last.Data["code"])
}

func TestMalformedRequests(t *testing.T) {
	client, _ := startServer(t, &Server{})

	_, err := client.Derive(DeriveRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Empty(t, addrerr.KindOf(err))

	in, err := structpb.NewStruct(map[string]interface{}{
		FieldMasterPublicKey: masterPKHex,
		FieldSynthetic:       "yes",
	})
	require.NoError(t, err)
	_, err = client.client.Derive(context.Background(), in)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUnimplemented(t *testing.T) {
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	RegisterEncoderServer(s, UnimplementedEncoderServer{})
	go func() {
		_ = s.Serve(lis)
	}()
	defer s.Stop()

	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer cc.Close()

	_, err = NewClient(cc).Encode([]byte{1}, "bls1238")
	require.Equal(t, codes.Unimplemented, status.Code(err))
}
