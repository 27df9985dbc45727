package grpc

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps the gRPC server
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
}

// NewServer creates a gRPC server listening on port
func NewServer(port int, secret string, navigation NavigationServiceServer) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return NewServerWithListener(listener, secret, navigation), nil
}

// NewServerWithListener creates a gRPC server on an existing listener
func NewServerWithListener(listener net.Listener, secret string, navigation NavigationServiceServer) *Server {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(UnaryAuthInterceptor(secret)))

	// Register all services
	RegisterNavigationServiceServer(grpcServer, navigation)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(navigationServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		listener:   listener,
	}
}

// Start starts the gRPC server (blocking)
func (s *Server) Start() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}
