package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/swipe-match/internal/config"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
)

// GRPCServer exposes the standard gRPC health service, fed by the same
// checks as GET /health, for orchestrators that speak gRPC.
type GRPCServer struct {
	addr    string
	server  *grpc.Server
	health  *health.Server
	checker *HealthChecker
	log     *slog.Logger
}

// NewGRPCServer builds the server; call Serve to start it.
func NewGRPCServer(cfg *config.Config, checker *HealthChecker, log *slog.Logger) *GRPCServer {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(ErrorInterceptor(log)))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(srv)

	return &GRPCServer{
		addr:    fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port),
		server:  srv,
		health:  hs,
		checker: checker,
		log:     log,
	}
}

// Serve listens and blocks. Health status is refreshed every interval until
// ctx ends.
func (s *GRPCServer) Serve(ctx context.Context, interval time.Duration) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.refresh(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refresh(ctx)
			}
		}
	}()

	s.log.Info("starting gRPC health server", "addr", s.addr)
	return s.server.Serve(lis)
}

func (s *GRPCServer) refresh(ctx context.Context) {
	_, healthy := s.checker.Check(ctx)
	status := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}

// Stop marks the server NOT_SERVING and drains in-flight calls.
func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// ErrorInterceptor maps domain errors onto gRPC status codes.
func ErrorInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			log.Debug("gRPC call failed", "method", info.FullMethod, "err", err)
			return resp, svcErr.Map(err)
		}
		return resp, nil
	}
}
