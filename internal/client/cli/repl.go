package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Verify(ctx context.Context, args []string) error
	Ping(ctx context.Context) error
}

// runREPL reads one command per line and dispatches it. Handler errors are
// printed and the loop goes on; it ends on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, lines *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "gophauth%s> ", statusFn())

		line, err := lines.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: whoami, verify [token], logout, login, ping, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, verify <token>, ping, exit")
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "verify":
			cmdErr = a.Verify(ctx, args)
		case "ping":
			cmdErr = a.Ping(ctx)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "error:", cmdErr)
		}
	}
}
