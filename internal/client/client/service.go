package client

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
)

// Client is the surface the CLI needs from the server.
type Client interface {
	Close() error
	Register(ctx context.Context, userName, password, email string) (*api.User, error)
	Login(ctx context.Context, userName, password string) (*api.LoginResponse, error)
	Verify(ctx context.Context, token string) (*api.VerifyResponse, error)
	WhoAmI(ctx context.Context, token string) (*api.WhoAmIResponse, error)
	Logout(ctx context.Context, token string) (int64, error)
	Ping(ctx context.Context) error
}
