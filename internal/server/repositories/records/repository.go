// Package records provides persistence for encrypted vault records.
package records

import (
	"context"

	"github.com/passvault-io/passvault/internal/cryptox"
	"github.com/passvault-io/passvault/internal/server/models"
)

// Repository stores opaque envelopes keyed by record id and owner id. It
// trusts the identity handed to it; token verification happens upstream.
type Repository interface {
	// ListByUser returns the user's records ordered most-recently-updated first.
	ListByUser(ctx context.Context, userID string) ([]*models.VaultRecord, error)

	// GetByID fetches a record regardless of owner, so callers can
	// distinguish a missing record from one owned by someone else.
	GetByID(ctx context.Context, id string) (*models.VaultRecord, error)

	Create(ctx context.Context, userID string, env cryptox.Wire) (*models.VaultRecord, error)
	Update(ctx context.Context, id string, env cryptox.Wire) (*models.VaultRecord, error)

	// Delete removes the record matching both id and owner. The condition is
	// the ownership check; false means nothing matched, with no indication
	// whether the record was absent or foreign.
	Delete(ctx context.Context, id, userID string) (bool, error)
}
