package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

func startBufconn(t *testing.T, a AuthService) api.AuthServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- newServer(a).Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return api.NewAuthServiceClient(conn)
}

func TestBufconn_RoundTrip(t *testing.T) {
	u := &models.User{ID: 42, UserName: "alice", Email: "a@x.com"}
	tok := mustIssue(t, 42)
	f := &fakeAuth{
		regResp:    services.RegistrationResult{Success: true, User: u.Public()},
		loginResp:  services.LoginResult{Success: true, Token: tok, ExpiresAt: testNow.Add(time.Hour)},
		revokeResp: 1,
	}
	client := startBufconn(t, f)
	ctx := context.Background()

	ping, err := client.Ping(ctx, &api.PingRequest{})
	if err != nil || ping.Status != "OK" {
		t.Fatalf("Ping: %+v, %v", ping, err)
	}

	reg, err := client.Register(ctx, &api.RegisterRequest{Username: "alice", Password: "pw1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if reg.User.ID != 42 || reg.User.Username != "alice" {
		t.Fatalf("unexpected user: %+v", reg.User)
	}

	login, err := client.Login(ctx, &api.LoginRequest{Username: "alice", Password: "pw1"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	v, err := client.Verify(ctx, &api.VerifyRequest{Token: login.Token})
	if err != nil || !v.Valid || v.Claims.UserID != 42 {
		t.Fatalf("Verify: %+v, %v", v, err)
	}

	_, err = client.WhoAmI(ctx, &api.WhoAmIRequest{})
	wantCode(t, err, codes.Unauthenticated)

	authCtx := metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, login.Token)
	me, err := client.WhoAmI(authCtx, &api.WhoAmIRequest{})
	if err != nil {
		t.Fatalf("WhoAmI error: %v", err)
	}
	if me.UserID != 42 || me.ExpiresAt != testNow.Add(time.Hour).Unix() {
		t.Fatalf("unexpected identity: %+v", me)
	}

	out, err := client.Logout(authCtx, &api.LogoutRequest{})
	if err != nil || out.Revoked != 1 {
		t.Fatalf("Logout: %+v, %v", out, err)
	}
}

func TestBufconn_LoginRejected(t *testing.T) {
	client := startBufconn(t, &fakeAuth{loginResp: services.LoginResult{Reason: services.ReasonInvalidCredentials}})

	_, err := client.Login(context.Background(), &api.LoginRequest{Username: "alice", Password: "wrong"})
	wantCode(t, err, codes.Unauthenticated)
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, &fakeAuth{}, 0)
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := newServer(&fakeAuth{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}
