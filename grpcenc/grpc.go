package grpcenc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EncoderServer is the server API for the Encoder gRPC service.
//
// Requests and replies are protobuf well-known types, so the package builds
// without a protoc toolchain. Field names are listed on Server.
type EncoderServer interface {
	Derive(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Encode(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Decode(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// UnimplementedEncoderServer can be embedded to have forward compatible implementations.
type UnimplementedEncoderServer struct{}

func (UnimplementedEncoderServer) Derive(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Derive not implemented")
}
func (UnimplementedEncoderServer) Encode(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Encode not implemented")
}
func (UnimplementedEncoderServer) Decode(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Decode not implemented")
}

// RegisterEncoderServer registers the Encoder service on a gRPC server.
func RegisterEncoderServer(s grpc.ServiceRegistrar, srv EncoderServer) {
	s.RegisterService(&Encoder_ServiceDesc, srv)
}

// EncoderClient is the client API for the Encoder gRPC service.
type EncoderClient interface {
	Derive(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Encode(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Decode(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type encoderClient struct{ cc grpc.ClientConnInterface }

func NewEncoderClient(cc grpc.ClientConnInterface) EncoderClient { return &encoderClient{cc: cc} }

const (
	serviceName  = "blsaddr.v1.Encoder"
	methodDerive = "/" + serviceName + "/Derive"
	methodEncode = "/" + serviceName + "/Encode"
	methodDecode = "/" + serviceName + "/Decode"
)

func (c *encoderClient) Derive(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodDerive, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *encoderClient) Encode(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, methodEncode, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *encoderClient) Decode(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodDecode, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Encoder_Derive_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EncoderServer).Derive(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDerive}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EncoderServer).Derive(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Encoder_Encode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EncoderServer).Encode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodEncode}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EncoderServer).Encode(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Encoder_Decode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EncoderServer).Decode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDecode}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EncoderServer).Decode(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Encoder_ServiceDesc is the grpc.ServiceDesc for the Encoder service.
var Encoder_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EncoderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Derive", Handler: _Encoder_Derive_Handler},
		{MethodName: "Encode", Handler: _Encoder_Encode_Handler},
		{MethodName: "Decode", Handler: _Encoder_Decode_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "encoder.proto",
}
