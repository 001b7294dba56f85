// Package server wires configuration, storage, the token ledger and the
// gRPC transport together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/ledger"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/token"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

const startupTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	ledger  ledger.Ledger
	auth    *services.AuthService
	closers []func() error
}

// openDB and runMigrations are seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	runMigrations = func(ctx context.Context, m repomanager.RepositoryManager, db *sql.DB) error {
		return m.RunMigrations(ctx, db)
	}
)

// NewApp connects to PostgreSQL (and Redis when it backs the ledger),
// applies migrations and builds the auth service.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	app := &App{config: c, logger: logger}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	if err := db.PingContext(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := runMigrations(ctx, rm, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if err := app.initLedger(ctx, rm); err != nil {
		app.Close()
		return nil, err
	}

	hasher, err := newHasher(c)
	if err != nil {
		app.Close()
		return nil, err
	}

	policy, err := services.ParsePolicy(c.RevocationPolicy)
	if err != nil {
		app.Close()
		return nil, err
	}

	if c.SecretKey == "" {
		logger.Warn(ctx, "no secret key configured, tokens will not survive a restart")
	}
	secret := token.SecretFromConfig(c.SecretKey)

	app.auth = services.NewAuthService(db, rm, app.ledger, hasher, secret,
		services.AuthOptions{TokenTTL: c.TokenTTL, Policy: policy}, logger)

	return app, nil
}

func newHasher(c *config.Config) (*password.Hasher, error) {
	pc := password.DefaultConfig()
	pc.Algorithm = password.Algorithm(c.HashAlgorithm)
	pc.BcryptCost = c.BcryptCost
	h, err := password.New(pc)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	return h, nil
}

func (app *App) initLedger(ctx context.Context, rm repomanager.RepositoryManager) error {
	backend, err := ledger.ParseBackend(app.config.LedgerBackend)
	if err != nil {
		return err
	}

	switch backend {
	case ledger.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
		app.closers = append(app.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping error: %w", err)
		}
		app.ledger = ledger.NewRedisLedger(rdb)
	case ledger.BackendNone:
		app.ledger = ledger.Noop{}
	default:
		app.ledger = ledger.NewPostgresLedger(app.db, rm)
	}

	app.logger.Info(ctx, "token ledger ready", "backend", backend, "policy", app.config.RevocationPolicy)
	return nil
}

// Close releases connections in reverse order of acquisition.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	app.closers = nil
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.auth, app.config.RequestTimeout)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes storage connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ledger.RunSweeper(ctx, app.ledger, app.config.LedgerSweepInterval, app.logger.With("module", "ledger_sweeper"))
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
