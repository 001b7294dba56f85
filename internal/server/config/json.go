package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// strings such as "1h" and integer nanoseconds. Keys missing from the file
// leave the corresponding Config field unchanged.
type JsonConfig struct {
	EndpointAddrGRPC    *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN         *string         `json:"database_dsn"`
	SecretKey           *string         `json:"secret_key"`
	TokenTTL            *timex.Duration `json:"token_ttl"`
	HashAlgorithm       *string         `json:"hash_algorithm"`
	BcryptCost          *int            `json:"bcrypt_cost"`
	LedgerBackend       *string         `json:"ledger_backend"`
	RedisAddr           *string         `json:"redis_addr"`
	RevocationPolicy    *string         `json:"revocation_policy"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	LedgerSweepInterval *timex.Duration `json:"ledger_sweep_interval"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson loads the file given with -c or -config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.HashAlgorithm, c.HashAlgorithm)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.LedgerBackend, c.LedgerBackend)
	setIf(&config.RedisAddr, c.RedisAddr)
	setIf(&config.RevocationPolicy, c.RevocationPolicy)
	setIf(&config.LogLevel, c.LogLevel)

	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.LedgerSweepInterval != nil {
		config.LedgerSweepInterval = c.LedgerSweepInterval.Duration
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
