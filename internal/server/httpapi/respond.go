// Package httpapi exposes the JSON HTTP surface of the vault server: auth
// endpoints, the ownership-enforced vault CRUD, and the bearer-token
// middleware that gates it.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/passvault-io/passvault/internal/cryptox"
	"github.com/passvault-io/passvault/internal/server/models"
)

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *userPayload `json:"user,omitempty"`
}

type recordPayload struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	EncryptedData cryptox.Wire `json:"encryptedData"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type dataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func toRecordPayload(rec *models.VaultRecord) recordPayload {
	return recordPayload{
		ID:            rec.ID,
		UserID:        rec.UserID,
		EncryptedData: rec.Envelope,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError sends the uniform failure shape. The message must already be
// safe for clients; internal detail stays in the server log.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dataResponse{Success: false, Message: message})
}
