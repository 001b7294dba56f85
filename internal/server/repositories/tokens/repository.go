// Package tokens declares the revocation ledger: the persisted set of
// issued tokens, keyed by owning user.
package tokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository defines operations for recording and revoking issued tokens.
type Repository interface {
	// Create stores a ledger row for an issued token.
	Create(ctx context.Context, token *models.IssuedToken) error

	// Exists reports whether the token still has a ledger row.
	Exists(ctx context.Context, token string) (bool, error)

	// DeleteForUser removes every row of userID and returns how many went.
	// Deleting from an empty ledger is not an error.
	DeleteForUser(ctx context.Context, userID int64) (int64, error)

	// DeleteExpired purges rows that expired before the given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
