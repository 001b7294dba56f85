package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// PostgresLedger stores entries in the tokens table.
type PostgresLedger struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewPostgresLedger(db *sql.DB, repos repomanager.RepositoryManager) *PostgresLedger {
	return &PostgresLedger{db: db, repos: repos}
}

func (l *PostgresLedger) Supersede(ctx context.Context, entry *models.IssuedToken) error {
	err := dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := l.repos.Tokens(tx)
		if _, err := repo.DeleteForUser(ctx, entry.UserID); err != nil {
			return err
		}
		return repo.Create(ctx, entry)
	})
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (l *PostgresLedger) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	n, err := l.repos.Tokens(l.db).DeleteForUser(ctx, userID)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}

func (l *PostgresLedger) IsActive(ctx context.Context, token string) (bool, error) {
	ok, err := l.repos.Tokens(l.db).Exists(ctx, token)
	if err != nil {
		return false, storageErr(err)
	}
	return ok, nil
}

func (l *PostgresLedger) Sweep(ctx context.Context, now time.Time) (int64, error) {
	n, err := l.repos.Tokens(l.db).DeleteExpired(ctx, now)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}
