package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/inputx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
)

// initdb prepares the schema and creates the first user. It reads the same
// configuration as the server.
func main() {

	cfg, err := config.LoadConfig(os.Args)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	console := inputx.NewConsole(os.Stdin, os.Stdout)
	if err := server.InitDB(context.Background(), cfg, console, os.Stdout, logger); err != nil {
		log.Fatalf("%v", err)
	}

}
