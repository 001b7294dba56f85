package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Config holds runtime settings for the gophauth CLI.
type Config struct {
	ServerEndpointAddr  string        `env:"SERVER_ADDR"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	SessionFile         string        `env:"SESSION_FILE"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
	c.SessionFile = "gophauth-session.db"
	c.OnlineCheckInterval = 30 * time.Second
}

// LoadConfig applies defaults, then the JSON file, environment and flags
// found in args (args[0] is the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.ServerEndpointAddr == "" {
		return nil, fmt.Errorf("%w: server address is empty", common.ErrorValidation)
	}
	return cfg, nil
}
