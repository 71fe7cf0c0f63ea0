// Package users provides account persistence.
package users

import (
	"context"

	"github.com/passvault-io/passvault/internal/server/models"
)

// Repository stores account identities. Implementations map storage-level
// conflicts to common.ErrorAlreadyExists and misses to common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
