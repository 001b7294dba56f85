package models

import "time"

// IssuedToken is a revocation ledger row: a token handed out to UserID that
// stays valid until ExpiresAt unless the row is deleted first.
type IssuedToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
