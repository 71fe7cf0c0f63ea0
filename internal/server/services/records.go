package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/cryptox"
	"github.com/passvault-io/passvault/internal/server/models"
	"github.com/passvault-io/passvault/internal/server/repositories/records"
)

// RecordService is the ownership-enforced store for encrypted envelopes. It
// trusts the ownerID it is given; token verification happens upstream in the
// HTTP middleware.
type RecordService struct {
	repo records.Repository
}

func NewRecordService(repo records.Repository) *RecordService {
	return &RecordService{repo: repo}
}

// List returns the owner's records, most-recently-updated first.
func (s *RecordService) List(ctx context.Context, ownerID string) ([]*models.VaultRecord, error) {
	recs, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return recs, nil
}

// Create stores a new envelope with a server-assigned id and timestamps.
func (s *RecordService) Create(ctx context.Context, ownerID string, env cryptox.Wire) (*models.VaultRecord, error) {
	rec, err := s.repo.Create(ctx, ownerID, env)
	if err != nil {
		return nil, fmt.Errorf("creating record: %w", err)
	}
	return rec, nil
}

// Update replaces the envelope of an existing record. The existence check
// runs before the ownership check: a missing id yields ErrorNotFound, an id
// owned by someone else yields ErrorForbidden.
func (s *RecordService) Update(ctx context.Context, id, ownerID string, env cryptox.Wire) (*models.VaultRecord, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("fetching record: %w", err)
	}
	if existing.UserID != ownerID {
		return nil, common.ErrorForbidden
	}

	rec, err := s.repo.Update(ctx, id, env)
	if err != nil {
		return nil, fmt.Errorf("updating record: %w", err)
	}
	return rec, nil
}

// Delete removes a record matching both id and owner. The single conditional
// delete is the ownership check; false covers both "absent" and "foreign"
// without distinguishing them.
func (s *RecordService) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	ok, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("deleting record: %w", err)
	}
	return ok, nil
}
