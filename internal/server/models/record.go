package models

import (
	"time"

	"github.com/passvault-io/passvault/internal/cryptox"
)

// VaultRecord is an encrypted envelope owned by exactly one user. The
// envelope fields are stored as the base64 strings received on the wire and
// returned byte-for-byte, so records written by older clients stay readable.
type VaultRecord struct {
	ID        string
	UserID    string
	Envelope  cryptox.Wire
	CreatedAt time.Time
	UpdatedAt time.Time
}
