package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/inputx"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type sessionStore interface {
	Save(ctx context.Context, s session.Session) error
	Load(ctx context.Context) (*session.Session, error)
	Clear(ctx context.Context) error
	Close() error
}

type prompter interface {
	Text(prompt string) (string, error)
	Password(prompt string) ([]byte, error)
	NewPassword() ([]byte, error)
}

type App struct {
	config   *config.Config
	client   client.Client
	store    sessionStore
	prompt   prompter
	lines    *bufio.Reader
	out      io.Writer
	mu       sync.Mutex
	mode     Mode
	userName string
}

// NewApp opens the session store and prepares the gRPC client. in and out
// are the terminal streams; prompts and REPL lines share one buffered reader.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	store, err := session.Open(ctx, c.SessionFile)
	if err != nil {
		return nil, err
	}

	api, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		store.Close()
		return nil, err
	}

	console := inputx.NewConsole(in, out)
	app := &App{config: c, client: api, store: store, prompt: console, lines: console.In, out: out}
	app.restoreSession(ctx)
	return app, nil
}

func (a *App) restoreSession(ctx context.Context) {
	s, err := a.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(a.out, "error:", err)
		}
		return
	}
	a.userName = s.UserName
}

func (a *App) Close() error {
	return errors.Join(a.client.Close(), a.store.Close())
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	fmt.Fprintln(a.out, "Welcome to gophauth CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.lines, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) setMode(m Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = m
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if m := a.getMode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// checkOnline pings the server once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
