package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Register prompts for a username, an email and a confirmed password and
// creates the account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	userName, err := a.prompt.Text("Username")
	if err != nil {
		return err
	}
	email, err := a.prompt.Text("Email")
	if err != nil {
		return err
	}
	password, err := a.prompt.NewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.client.Register(ctx, userName, string(password), email)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return errors.New("username or email already taken")
		}
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %d)\n", u.Username, u.ID)
	return nil
}

// Login authenticates and stores the issued token, replacing any earlier
// session.
func (a *App) Login(ctx context.Context) error {
	userName, err := a.prompt.Text("Username")
	if err != nil {
		return err
	}
	password, err := a.prompt.Password("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.client.Login(ctx, userName, string(password))
	if err != nil {
		return err
	}

	exp := time.Unix(resp.ExpiresAt, 0)
	if err := a.store.Save(ctx, session.Session{UserName: userName, Token: resp.Token, ExpiresAt: exp}); err != nil {
		return err
	}
	a.userName = userName

	fmt.Fprintf(a.out, "Logged in, token valid until %s\n", exp.Format(time.RFC3339))
	return nil
}

// Logout revokes every token of the current user on the server and forgets
// the local session. A token the server no longer accepts is forgotten too.
func (a *App) Logout(ctx context.Context) error {
	s, err := a.store.Load(ctx)
	if err != nil {
		return err
	}

	n, err := a.client.Logout(ctx, s.Token)
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.userName = ""

	fmt.Fprintf(a.out, "Logged out, %d token(s) revoked\n", n)
	return nil
}

// WhoAmI shows who the stored token belongs to.
func (a *App) WhoAmI(ctx context.Context) error {
	s, err := a.store.Load(ctx)
	if err != nil {
		return err
	}

	who, err := a.client.WhoAmI(ctx, s.Token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Session is no longer valid, please log in again")
			a.userName = ""
			return a.store.Clear(ctx)
		}
		return err
	}

	fmt.Fprintf(a.out, "%s: user id %d, token valid until %s\n",
		s.UserName, who.UserID, time.Unix(who.ExpiresAt, 0).Format(time.RFC3339))
	return nil
}

// Verify asks the server whether a token is currently accepted. Without an
// argument the stored token is checked.
func (a *App) Verify(ctx context.Context, args []string) error {
	var tok string
	if len(args) > 0 {
		tok = args[0]
	} else {
		s, err := a.store.Load(ctx)
		if err != nil {
			return err
		}
		tok = s.Token
	}

	resp, err := a.client.Verify(ctx, tok)
	if err != nil {
		return err
	}

	if !resp.Valid || resp.Claims == nil {
		fmt.Fprintln(a.out, "Token is not valid")
		return nil
	}
	fmt.Fprintf(a.out, "Token is valid: user id %d, expires %s\n",
		resp.Claims.UserID, time.Unix(resp.Claims.ExpiresAt, 0).Format(time.RFC3339))
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return err
	}
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Server is up")
	return nil
}
