package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      api.AuthServiceClient
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) timeoutInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazy connection to endpointURL. Extra dial options
// are appended after the defaults (insecure transport, timeout interceptor).
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.timeoutInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, userName, password, email string) (*api.User, error) {
	resp, err := s.client.Register(ctx, &api.RegisterRequest{Username: userName, Password: password, Email: email})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) Login(ctx context.Context, userName, password string) (*api.LoginResponse, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: userName, Password: password})
	if err != nil {
		err = s.mapError(err)
		if errors.Is(err, ErrUnauthorized) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, err
	}
	return resp, nil
}

func (s *GRPCClient) Verify(ctx context.Context, token string) (*api.VerifyResponse, error) {
	resp, err := s.client.Verify(ctx, &api.VerifyRequest{Token: token})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context, token string) (*api.WhoAmIResponse, error) {
	resp, err := s.client.WhoAmI(withAccessToken(ctx, token), &api.WhoAmIRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Logout(ctx context.Context, token string) (int64, error) {
	resp, err := s.client.Logout(withAccessToken(ctx, token), &api.LogoutRequest{})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Revoked, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.InvalidArgument:
		return common.ErrorValidation
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
