package grpcenc

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/blsaddr/addrerr"
)

// mapErr turns a structured error into an InvalidArgument status whose message
// starts with the error kind, so the client can restore it.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if k := addrerr.KindOf(err); k != "" {
		return status.Error(codes.InvalidArgument, string(k)+": "+err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		return err
	}
	prefix, rest, found := strings.Cut(st.Message(), ": ")
	if !found {
		return err
	}
	kind, ok := addrerr.ParseKind(prefix)
	if !ok {
		return err
	}
	return &addrerr.Error{Kind: kind, Op: "grpcenc", Message: rest, Cause: err}
}
