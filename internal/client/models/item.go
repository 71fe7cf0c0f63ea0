// Package models defines the client-side vault item structure. An item is
// what the user edits; the server only ever sees its encrypted form.
package models

import (
	"encoding/json"

	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/cryptox"
)

// VaultItem is the plaintext credential entry. It exists only in client
// memory; it is serialized to JSON and sealed before leaving the process.
type VaultItem struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
}

// Seal serializes the item and encrypts it with a key derived from password,
// using a fresh salt and nonce.
func (v *VaultItem) Seal(password []byte) (*cryptox.Envelope, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plaintext)

	return cryptox.Seal(plaintext, password)
}

// OpenItem decrypts an envelope with a key derived from password and parses
// the plaintext back into a VaultItem.
func OpenItem(env *cryptox.Envelope, password []byte) (*VaultItem, error) {
	plaintext, err := cryptox.Open(env, password)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plaintext)

	item := &VaultItem{}
	if err := json.Unmarshal(plaintext, item); err != nil {
		return nil, err
	}
	return item, nil
}
