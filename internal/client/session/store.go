// Package session keeps the CLI's current login in a local SQLite file so
// that the token survives between runs.
package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

const (
	keyUserName  = "username"
	keyToken     = "token"
	keyExpiresAt = "expires_at"
)

type Session struct {
	UserName  string
	Token     string
	ExpiresAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database at path and applies
// its migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("session migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored session.
func (s *Store) Save(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		values := map[string]string{
			keyUserName:  sess.UserName,
			keyToken:     sess.Token,
			keyExpiresAt: strconv.FormatInt(sess.ExpiresAt.Unix(), 10),
		}
		for k, v := range values {
			if err := set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the stored session or ErrNoSession.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	tok, err := get(ctx, s.db, keyToken)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, ErrNoSession
	}

	name, err := get(ctx, s.db, keyUserName)
	if err != nil {
		return nil, err
	}

	exp, err := get(ctx, s.db, keyExpiresAt)
	if err != nil {
		return nil, err
	}
	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session expiry %q: %w", exp, err)
	}

	return &Session{UserName: name, Token: tok, ExpiresAt: time.Unix(unix, 0)}, nil
}

// Clear forgets the stored session. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func get(ctx context.Context, db dbx.DBTX, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}
