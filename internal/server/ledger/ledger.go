// Package ledger keeps track of which issued tokens are still honoured.
//
// A token is only ever recorded through Supersede, which drops every earlier
// token of the same user first, so a user has at most one live ledger entry.
// Backends wrap every I/O failure in common.ErrStorageUnavailable.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
	BackendNone     Backend = "none"
)

// ParseBackend accepts the config spelling of a backend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendPostgres, BackendRedis, BackendNone:
		return b, nil
	}
	return "", fmt.Errorf("%w: unknown ledger backend %q", common.ErrorValidation, s)
}

// Ledger is implemented by PostgresLedger, RedisLedger and Noop.
type Ledger interface {
	// Supersede atomically removes all entries of entry.UserID and records
	// entry. On failure nothing changes.
	Supersede(ctx context.Context, entry *models.IssuedToken) error

	// RevokeAll removes every entry of userID and reports how many were live.
	RevokeAll(ctx context.Context, userID int64) (int64, error)

	// IsActive reports whether token still has an entry.
	IsActive(ctx context.Context, token string) (bool, error)

	// Sweep purges entries that expired before now.
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
}
