package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"go.opentelemetry.io/otel/trace"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/homefinder/loancalc/pkg/auth"
	"github.com/homefinder/loancalc/pkg/tlsutil"
)

// HealthServiceName is the name reported to grpc.health.v1 clients.
const HealthServiceName = "loancalc"

// ServerConfig holds the optional transport settings. A nil Tracer disables
// request spans.
type ServerConfig struct {
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
	Tracer      trace.Tracer
}

// Server wraps a gRPC server with the calculator handler registered.
type Server struct {
	gs     *grpclib.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server. TLS is enabled when both
// certificate and key files are set.
func NewServer(handler CalculatorServiceServer, jwtService *auth.JWTService, cfg ServerConfig, logger *slog.Logger) (*Server, error) {
	authInterceptor := auth.UnaryAuthInterceptor(jwtService, []string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	})

	interceptors := []grpclib.UnaryServerInterceptor{RecoveryInterceptor(logger), authInterceptor}
	if cfg.Tracer != nil {
		interceptors = append([]grpclib.UnaryServerInterceptor{TracingInterceptor(cfg.Tracer)}, interceptors...)
	}
	serverOpts := []grpclib.ServerOption{grpclib.ChainUnaryInterceptor(interceptors...)}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err := tlsutil.ServerCredentials(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load grpc tls credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpclib.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", cfg.TLSCertFile)
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpclib.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)

	if cfg.Reflection {
		reflection.Register(gs)
	}

	RegisterCalculatorServiceServer(gs, handler)

	return &Server{gs: gs, health: healthSrv, logger: logger}, nil
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// GracefulStop marks the service as not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}
