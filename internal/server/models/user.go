// Package models defines the server-side persistence shapes. The server never
// sees vault plaintext; VaultRecord carries only the opaque encrypted
// envelope produced by the client.
package models

import "time"

// User is an account identity. Email is stored case-normalized and unique.
// PasswordHash is a bcrypt hash of the account password, never the password
// itself (and never the master password used for envelope encryption).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
