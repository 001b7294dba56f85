package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

func parseFlags(cfg *Config, args []string) error {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.DurationVar(&cfg.RequestTimeout, "o", cfg.RequestTimeout, "per-call timeout")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "session database file")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online status check interval, 0 disables")

	return fs.Parse(flagx.FilterArgs(rest, []string{"-a", "-o", "-f", "-i"}))
}
