package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	deleteForUserQ = `DELETE FROM tokens\s+WHERE user_id = \$1`
	insertTokenQ   = `INSERT INTO tokens \(token, user_id, expires_at\)`
	existsQ        = `SELECT EXISTS \(SELECT 1 FROM tokens WHERE token = \$1\)`
	deleteExpiredQ = `DELETE FROM tokens\s+WHERE expires_at < \$1`
)

func newPostgresLedger(t *testing.T) (*PostgresLedger, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresLedger(db, repomanager.NewPostgresRepositoryManager()), mock, db
}

func issued(token string, userID int64) *models.IssuedToken {
	return &models.IssuedToken{Token: token, UserID: userID, ExpiresAt: time.Unix(1700003600, 0)}
}

func TestPostgresLedger_SupersedeCommitsDeleteThenInsert(t *testing.T) {
	l, mock, db := newPostgresLedger(t)
	defer db.Close()

	entry := issued("tok-2", 42)
	mock.ExpectBegin()
	mock.ExpectExec(deleteForUserQ).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertTokenQ).WithArgs("tok-2", int64(42), entry.ExpiresAt).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, l.Supersede(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_SupersedeRollsBackOnInsertFailure(t *testing.T) {
	l, mock, db := newPostgresLedger(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(deleteForUserQ).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertTokenQ).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := l.Supersede(context.Background(), issued("tok-2", 42))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_SupersedeBeginFailure(t *testing.T) {
	l, mock, db := newPostgresLedger(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("conn refused"))

	err := l.Supersede(context.Background(), issued("tok", 1))
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestPostgresLedger_RevokeAll(t *testing.T) {
	l, mock, db := newPostgresLedger(t)
	defer db.Close()

	mock.ExpectExec(deleteForUserQ).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 2))
	n, err := l.RevokeAll(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mock.ExpectExec(deleteForUserQ).WithArgs(int64(7)).WillReturnError(errors.New("down"))
	_, err = l.RevokeAll(context.Background(), 7)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestPostgresLedger_IsActive(t *testing.T) {
	l, mock, db := newPostgresLedger(t)
	defer db.Close()

	mock.ExpectQuery(existsQ).WithArgs("tok").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := l.IsActive(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(existsQ).WithArgs("tok").WillReturnError(errors.New("down"))
	ok, err = l.IsActive(context.Background(), "tok")
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.False(t, ok)
}

func TestPostgresLedger_Sweep(t *testing.T) {
	l, mock, db := newPostgresLedger(t)
	defer db.Close()

	now := time.Unix(1700000000, 0)
	mock.ExpectExec(deleteExpiredQ).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := l.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
