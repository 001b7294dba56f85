// Package users is the credential store: durable user records looked up by
// username or email.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the narrow query interface the auth service needs.
// Lookups return common.ErrorNotFound when no row matches.
type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A username or
	// email that is already taken yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	FindByUsernameOrEmail(ctx context.Context, userName, email string) (*models.User, error)
	FindByUsername(ctx context.Context, userName string) (*models.User, error)
}
