package server

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/swipe-api/internal/config"
)

// GRPCServer exposes the standard grpc.health.v1 service so orchestrators
// can probe the process without going through HTTP.
type GRPCServer struct {
	addr   string
	srv    *grpc.Server
	health *health.Server
}

func NewGRPCServer(cfg *config.Config) *GRPCServer {
	s := &GRPCServer{
		addr:   fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port),
		srv:    grpc.NewServer(),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(s.srv)
	return s
}

func (s *GRPCServer) Addr() string { return s.addr }

// SetServing flips the overall health status.
func (s *GRPCServer) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
}

// Start listens on the configured address and blocks serving.
func (s *GRPCServer) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	if err := s.srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Stop reports NOT_SERVING to watchers and then drains open streams.
func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
