package ledger

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Noop records nothing. It backs the "none" backend, where verification is
// purely cryptographic and logout cannot invalidate outstanding tokens.
type Noop struct{}

func (Noop) Supersede(context.Context, *models.IssuedToken) error { return nil }
func (Noop) RevokeAll(context.Context, int64) (int64, error)      { return 0, nil }
func (Noop) IsActive(context.Context, string) (bool, error)       { return true, nil }
func (Noop) Sweep(context.Context, time.Time) (int64, error)      { return 0, nil }
