// Package health serves the standard gRPC health protocol, answering with the
// state of the product store.
package health

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceName is the name probes use to ask for the catalog specifically.
// The empty service name reports the same state.
const ServiceName = "catalog.ProductService"

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	healthpb.UnimplementedHealthServer
	db Pinger
}

func NewServer(db Pinger) *Server {
	return &Server{db: db}
}

func (s *Server) Check(ctx context.Context, in *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := in.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		zap.S().Warnf("health check: store unreachable: %v", err)
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

// Serve registers the health service on a new gRPC server and serves lis
// until Stop is called on the returned server.
func Serve(lis net.Listener, db Pinger) *grpc.Server {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, NewServer(db))
	reflection.Register(srv)
	go func() {
		if err := srv.Serve(lis); err != nil {
			zap.S().Errorf("grpc health server: %v", err)
		}
	}()
	return srv
}
