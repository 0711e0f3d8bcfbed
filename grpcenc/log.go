package grpcenc

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const logModule = "grpcenc"

// UnaryLogger logs every RPC with its method, status code and latency.
// Failures are logged at warn level with the error; successes at debug.
func UnaryLogger(logger log.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		entry := logger.WithFields(log.Fields{
			"module":   logModule,
			"method":   info.FullMethod,
			"code":     status.Code(err).String(),
			"duration": time.Since(start),
		})
		if err != nil {
			entry.WithField("err", err).Warn("rpc failed")
		} else {
			entry.Debug("rpc served")
		}
		return resp, err
	}
}
