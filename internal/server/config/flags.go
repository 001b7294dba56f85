package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-m", "-k", "-l", "-r", "-v", "-o", "-i", "-L"}

// parseFlags overlays the server flags found in args (args[0] is the
// program name).
//
//	-a string    gRPC bind address (e.g. ":50051")
//	-d string    PostgreSQL DSN
//	-s string    token signing secret; empty means random per process
//	-t int       token lifetime, minutes
//	-m string    password hash algorithm: bcrypt or argon2id
//	-k int       bcrypt cost
//	-l string    ledger backend: postgres, redis or none
//	-r string    Redis address
//	-v string    revocation policy: lazy or ledger
//	-o duration  per-request timeout
//	-i duration  ledger sweep interval, 0 disables
//	-L string    log level
func parseFlags(config *Config, args []string) error {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	filtered := flagx.FilterArgs(rest, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	ttl := fs.Int("t", int(config.TokenTTL.Minutes()), "token lifetime (in minutes)")
	fs.StringVar(&config.HashAlgorithm, "m", config.HashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LedgerBackend, "l", config.LedgerBackend, "ledger backend")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RevocationPolicy, "v", config.RevocationPolicy, "revocation policy")
	fs.DurationVar(&config.RequestTimeout, "o", config.RequestTimeout, "per-request timeout")
	fs.DurationVar(&config.LedgerSweepInterval, "i", config.LedgerSweepInterval, "ledger sweep interval")
	fs.StringVar(&config.LogLevel, "L", config.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	// Only override the TTL when -t was given, so sub-minute values from
	// earlier layers survive.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
