package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/ledger"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/token"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// Prompter asks the operator for the details of a new user.
type Prompter interface {
	Text(prompt string) (string, error)
	NewPassword() ([]byte, error)
}

type registrar interface {
	Register(ctx context.Context, userName, plaintext, email string) (services.RegistrationResult, error)
}

// InitDB creates the database named in the DSN if it is missing, applies
// the schema migrations and then creates one user from the
// answers given to p. Issued tokens are not involved, so the ledger is not
// touched.
func InitDB(ctx context.Context, c *config.Config, p Prompter, w io.Writer, logger logging.Logger) error {
	pgCfg, err := pgx.ParseConfig(c.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	if err := ensureDatabase(ctx, *pgCfg, logger); err != nil {
		return fmt.Errorf("create database error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	if err := ensureSchema(ctx, db, searchPathSchema(pgCfg), logger); err != nil {
		return fmt.Errorf("create schema error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := runMigrations(ctx, rm, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	logger.Info(ctx, "schema is up to date")

	hasher, err := newHasher(c)
	if err != nil {
		return err
	}

	auth := services.NewAuthService(db, rm, ledger.Noop{}, hasher, token.SecretFromConfig(c.SecretKey),
		services.AuthOptions{TokenTTL: c.TokenTTL}, logger)

	return createFirstUser(ctx, auth, p, w)
}

const maintenanceDatabase = "postgres"

var (
	ensureDatabase = createDatabaseIfMissing
	// openMaintenanceDB is a seam for tests.
	openMaintenanceDB = func(cfg pgx.ConnConfig) *sql.DB {
		return stdlib.OpenDB(cfg)
	}
)

// createDatabaseIfMissing connects to the maintenance database with the same
// credentials and creates cfg.Database there unless it already exists. When
// the maintenance database is out of reach the target is assumed to exist;
// the following ping reports it otherwise.
func createDatabaseIfMissing(ctx context.Context, cfg pgx.ConnConfig, logger logging.Logger) error {
	name := cfg.Database
	if name == "" || name == maintenanceDatabase {
		return nil
	}

	cfg.Database = maintenanceDatabase
	db := openMaintenanceDB(cfg)
	defer db.Close()

	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM pg_database WHERE datname = $1`, name).Scan(&one)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		logger.Warn(ctx, "maintenance database unavailable, skipping create", "error", err)
		return nil
	}

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return err
	}
	logger.Info(ctx, "database created", "database", name)
	return nil
}

// searchPathSchema returns the schema named by a search_path DSN parameter
// when it names exactly one.
func searchPathSchema(cfg *pgx.ConnConfig) string {
	sp := strings.TrimSpace(cfg.RuntimeParams["search_path"])
	if sp == "" || strings.Contains(sp, ",") || strings.HasPrefix(sp, "$") {
		return ""
	}
	return strings.Trim(sp, `"`)
}

func ensureSchema(ctx context.Context, db *sql.DB, schema string, logger logging.Logger) error {
	if schema == "" {
		return nil
	}
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return err
	}
	logger.Info(ctx, "schema ready", "schema", schema)
	return nil
}

func createFirstUser(ctx context.Context, r registrar, p Prompter, w io.Writer) error {
	userName, err := p.Text("Username")
	if err != nil {
		return err
	}
	email, err := p.Text("Email")
	if err != nil {
		return err
	}
	pw, err := p.NewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	res, err := r.Register(ctx, userName, string(pw), email)
	if err != nil {
		return err
	}

	switch res.Reason {
	case services.ReasonDuplicateIdentity:
		return fmt.Errorf("%w: username or email already taken", common.ErrorAlreadyExists)
	case services.ReasonInvalidInput:
		return fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}

	fmt.Fprintf(w, "User %s created (id %d)\n", res.User.UserName, res.User.ID)
	return nil
}
