package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	result, err := s.auth.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		return nil, s.internalStatus(ctx, err)
	}

	switch result.Reason {
	case services.ReasonNone:
	case services.ReasonDuplicateIdentity:
		return nil, status.Error(codes.AlreadyExists, "user already exists")
	case services.ReasonInvalidInput:
		return nil, status.Error(codes.InvalidArgument, "username, password and email are required")
	default:
		return nil, status.Error(codes.Internal, common.ErrorInternal.Error())
	}

	u := result.User
	return &api.RegisterResponse{User: &api.User{ID: u.ID, Username: u.UserName, Email: u.Email}}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	result, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.internalStatus(ctx, err)
	}
	if !result.Success {
		return nil, status.Error(codes.Unauthenticated, common.ErrorInvalidCredentials.Error())
	}

	return &api.LoginResponse{Token: result.Token, ExpiresAt: result.ExpiresAt.Unix()}, nil
}

// Verify answers valid:false for a rejected token; only infrastructure
// failures are returned as errors.
func (s *GRPCServer) Verify(ctx context.Context, req *api.VerifyRequest) (*api.VerifyResponse, error) {
	res, err := s.auth.Verify(ctx, req.Token)
	if err != nil {
		return nil, s.internalStatus(ctx, err)
	}
	if !res.Valid {
		return &api.VerifyResponse{Valid: false}, nil
	}

	return &api.VerifyResponse{
		Valid:  true,
		Claims: &api.Claims{UserID: res.Claims.UserID, ExpiresAt: res.Claims.ExpiresAt},
	}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *api.WhoAmIRequest) (*api.WhoAmIResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}
	return &api.WhoAmIResponse{UserID: claims.UserID, ExpiresAt: claims.ExpiresAt}, nil
}

// Logout revokes every token of the caller, not only the presented one.
func (s *GRPCServer) Logout(ctx context.Context, _ *api.LogoutRequest) (*api.LogoutResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	n, err := s.auth.RevokeAllForUser(ctx, claims.UserID)
	if err != nil {
		return nil, s.internalStatus(ctx, err)
	}
	return &api.LogoutResponse{Revoked: n}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

// internalStatus maps an infrastructure error to a status without leaking
// its details to the caller.
func (s *GRPCServer) internalStatus(ctx context.Context, err error) error {
	s.logger.Error(ctx, "request failed", "error", err)

	switch {
	case errors.Is(err, common.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, common.ErrStorageUnavailable.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
