// Package grpcenc serves and calls the address encoder over gRPC.
//
// The service is described in encoder.proto but uses only protobuf
// well-known types, so no generated code is needed.
package grpcenc
