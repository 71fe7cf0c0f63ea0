package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/cryptox"
	"github.com/passvault-io/passvault/internal/logging"
	"github.com/passvault-io/passvault/internal/server/models"
)

// RecordService is the vault storage surface the handler needs. It receives
// the verified caller identity and enforces ownership internally.
type RecordService interface {
	List(ctx context.Context, ownerID string) ([]*models.VaultRecord, error)
	Create(ctx context.Context, ownerID string, env cryptox.Wire) (*models.VaultRecord, error)
	Update(ctx context.Context, id, ownerID string, env cryptox.Wire) (*models.VaultRecord, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// VaultHandler serves the /vault CRUD endpoints.
type VaultHandler struct {
	records RecordService
	log     logging.Logger
}

func NewVaultHandler(records RecordService, log logging.Logger) *VaultHandler {
	return &VaultHandler{records: records, log: log}
}

type envelopeRequest struct {
	EncryptedData cryptox.Wire `json:"encryptedData"`
}

// List returns all of the caller's records, most-recently-updated first.
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r)

	recs, err := h.records.List(r.Context(), caller.UserID)
	if err != nil {
		h.log.Error(r.Context(), "listing vault records failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	payload := make([]recordPayload, 0, len(recs))
	for _, rec := range recs {
		payload = append(payload, toRecordPayload(rec))
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: payload})
}

// Create stores a new envelope. All three envelope fields must be present.
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r)

	env, ok := h.decodeEnvelope(w, r)
	if !ok {
		return
	}

	rec, err := h.records.Create(r.Context(), caller.UserID, env)
	if err != nil {
		h.log.Error(r.Context(), "creating vault record failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, dataResponse{
		Success: true,
		Message: "Vault item created successfully",
		Data:    toRecordPayload(rec),
	})
}

// Update replaces a record's envelope: 404 when the id is unknown, 403 when
// it belongs to another account.
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r)
	id := chi.URLParam(r, "id")

	env, ok := h.decodeEnvelope(w, r)
	if !ok {
		return
	}

	rec, err := h.records.Update(r.Context(), id, caller.UserID, env)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "Vault item not found")
		case errors.Is(err, common.ErrorForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			h.log.Error(r.Context(), "updating vault record failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{
		Success: true,
		Message: "Vault item updated successfully",
		Data:    toRecordPayload(rec),
	})
}

// Delete removes a record. A miss and a foreign record produce the same 404.
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := CallerIdentity(r)
	id := chi.URLParam(r, "id")

	ok, err := h.records.Delete(r.Context(), id, caller.UserID)
	if err != nil {
		h.log.Error(r.Context(), "deleting vault record failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Vault item not found or already deleted")
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{
		Success: true,
		Message: "Vault item deleted successfully",
	})
}

func (h *VaultHandler) decodeEnvelope(w http.ResponseWriter, r *http.Request) (cryptox.Wire, bool) {
	var req envelopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return cryptox.Wire{}, false
	}
	if !req.EncryptedData.Complete() {
		writeError(w, http.StatusBadRequest, "Invalid encrypted data format")
		return cryptox.Wire{}, false
	}
	return req.EncryptedData, true
}
