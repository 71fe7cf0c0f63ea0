package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrIncompleteEnvelope is returned when any of the three wire fields is missing.
var ErrIncompleteEnvelope = errors.New("incomplete envelope")

// Wire is the three-field envelope shape shared by the HTTP API and the
// storage layer: base64 encodings of the AEAD ciphertext, the 16-byte KDF
// salt, and the 12-byte nonce. This exact shape must be preserved
// byte-for-byte for interoperability with previously stored records.
type Wire struct {
	Data string `json:"data"`
	Salt string `json:"salt"`
	IV   string `json:"iv"`
}

// Complete reports whether all three fields are present.
func (w Wire) Complete() bool {
	return w.Data != "" && w.Salt != "" && w.IV != ""
}

// EncodeWire converts an envelope to its base64 wire representation.
func (e *Envelope) EncodeWire() Wire {
	return Wire{
		Data: base64.StdEncoding.EncodeToString(e.Ciphertext),
		Salt: base64.StdEncoding.EncodeToString(e.Salt),
		IV:   base64.StdEncoding.EncodeToString(e.Nonce),
	}
}

// DecodeWire parses a wire envelope back into raw bytes, validating that all
// three fields are present, base64-decodable, and that salt and nonce have
// their exact expected lengths.
func DecodeWire(w Wire) (*Envelope, error) {
	if !w.Complete() {
		return nil, ErrIncompleteEnvelope
	}

	data, err := base64.StdEncoding.DecodeString(w.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding data: %w", err)
	}
	salt, err := base64.StdEncoding.DecodeString(w.Salt)
	if err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(w.IV)
	if err != nil {
		return nil, fmt.Errorf("decoding iv: %w", err)
	}

	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSaltSize, len(salt), SaltSize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce size: got %d, want %d", len(nonce), NonceSize)
	}

	return &Envelope{Ciphertext: data, Salt: salt, Nonce: nonce}, nil
}
