// Package grpc exposes the auth service over gRPC using the JSON codec from
// internal/api.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/token"
	"google.golang.org/grpc"
)

// AuthService is the part of services.AuthService the transport calls.
type AuthService interface {
	Register(ctx context.Context, userName, password, email string) (services.RegistrationResult, error)
	Login(ctx context.Context, userName, password string) (services.LoginResult, error)
	Verify(ctx context.Context, tok string) (token.Result, error)
	RevokeAllForUser(ctx context.Context, userID int64) (int64, error)
}

type GRPCServer struct {
	api.UnimplementedAuthServiceServer
	address        string
	auth           AuthService
	logger         logging.Logger
	requestTimeout time.Duration
}

func NewGRPCServer(address string, l logging.Logger, auth AuthService, requestTimeout time.Duration) *GRPCServer {
	return &GRPCServer{
		address:        address,
		logger:         l.With("module", "grpc_server"),
		auth:           auth,
		requestTimeout: requestTimeout,
	}
}

// newGRPC builds the grpc.Server with the interceptor chain and the service
// registered.
func (s *GRPCServer) newGRPC() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.requestLogInterceptor,
		s.deadlineInterceptor,
		s.accessTokenInterceptor,
	))
	api.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newGRPC()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
