package grpc

import (
	"context"
	"log/slog"
	"runtime/debug"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RecoveryInterceptor turns a panicking unary handler into codes.Internal so
// one request cannot take the server down.
func RecoveryInterceptor(logger *slog.Logger) grpclib.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(
		ctx context.Context,
		req any,
		info *grpclib.UnaryServerInfo,
		handler grpclib.UnaryHandler,
	) (resp any, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(ctx, "grpc handler panicked",
					"method", info.FullMethod,
					"panic", p,
					"stack", string(debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
