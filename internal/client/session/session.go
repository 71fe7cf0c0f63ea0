// Package session holds the unlocked vault state on the client. The master
// password lives here between Unlock and Lock and is wiped on Lock.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/passvault-io/passvault/internal/client/api"
	"github.com/passvault-io/passvault/internal/client/models"
	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/cryptox"
)

// ErrLocked is returned by operations that need the master password while
// the session is locked.
var ErrLocked = errors.New("vault session is locked")

// decryptWorkers bounds how many envelopes are opened concurrently. Key
// derivation dominates the cost, so a small pool keeps the CPU busy without
// starving the UI.
const decryptWorkers = 4

// Store is the server surface the session needs.
type Store interface {
	ListRecords(ctx context.Context) ([]api.Record, error)
	CreateRecord(ctx context.Context, env cryptox.Wire) (*api.Record, error)
	UpdateRecord(ctx context.Context, id string, env cryptox.Wire) (*api.Record, error)
	DeleteRecord(ctx context.Context, id string) error
}

// Entry is a decrypted record.
type Entry struct {
	ID        string
	Item      *models.VaultItem
	UpdatedAt time.Time
}

// Failure describes a record that could not be decrypted. One bad record
// must not hide the rest of the vault.
type Failure struct {
	RecordID string
	Err      error
}

// Session guards the master password and mediates all vault operations that
// need it.
type Session struct {
	mu       sync.Mutex
	store    Store
	password []byte
}

func New(store Store) *Session {
	return &Session{store: store}
}

// Unlock installs the master password. The session keeps its own copy so
// the caller may wipe theirs.
func (s *Session) Unlock(password []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wipeLocked()
	s.password = make([]byte, len(password))
	copy(s.password, password)
}

// Lock wipes the master password. Further calls needing it fail with
// ErrLocked until Unlock.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipeLocked()
}

// Locked reports whether the session currently holds a master password.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.password == nil
}

func (s *Session) wipeLocked() {
	common.WipeByteArray(s.password)
	s.password = nil
}

func (s *Session) passwordCopy() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.password == nil {
		return nil, ErrLocked
	}
	pw := make([]byte, len(s.password))
	copy(pw, s.password)
	return pw, nil
}

// LoadAll fetches every record and decrypts them in parallel, preserving
// server order. Records that fail to decrypt are reported as Failures
// alongside the entries that succeeded.
func (s *Session) LoadAll(ctx context.Context) ([]Entry, []Failure, error) {
	pw, err := s.passwordCopy()
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(pw)

	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, nil, err
	}

	type outcome struct {
		entry Entry
		err   error
	}
	outcomes := make([]outcome, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(decryptWorkers)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			env, err := cryptox.DecodeWire(rec.EncryptedData)
			if err == nil {
				var item *models.VaultItem
				item, err = models.OpenItem(env, pw)
				if err == nil {
					outcomes[i] = outcome{entry: Entry{ID: rec.ID, Item: item, UpdatedAt: rec.UpdatedAt}}
					return nil
				}
			}
			outcomes[i] = outcome{err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	entries := make([]Entry, 0, len(records))
	var failures []Failure
	for i, o := range outcomes {
		if o.err != nil {
			failures = append(failures, Failure{RecordID: records[i].ID, Err: o.err})
			continue
		}
		entries = append(entries, o.entry)
	}
	return entries, failures, nil
}

// Save seals the item with a fresh salt and nonce and stores it. With an
// empty existingID a new record is created; otherwise the record is
// replaced.
func (s *Session) Save(ctx context.Context, item *models.VaultItem, existingID string) (*api.Record, error) {
	pw, err := s.passwordCopy()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pw)

	env, err := item.Seal(pw)
	if err != nil {
		return nil, err
	}

	wire := env.EncodeWire()
	if existingID == "" {
		return s.store.CreateRecord(ctx, wire)
	}
	return s.store.UpdateRecord(ctx, existingID, wire)
}

// Delete removes a record. It does not need the master password.
func (s *Session) Delete(ctx context.Context, id string) error {
	return s.store.DeleteRecord(ctx, id)
}
