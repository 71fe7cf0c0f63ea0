package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/logging"
	"github.com/passvault-io/passvault/internal/server/auth"
	"github.com/passvault-io/passvault/internal/server/models"
)

// UserService is the account operations surface the auth handler needs.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// AuthHandler serves /auth/register and /auth/login.
type AuthHandler struct {
	users         UserService
	jwtSecret     []byte
	tokenValidity time.Duration
	log           logging.Logger
}

func NewAuthHandler(users UserService, jwtSecret []byte, tokenValidity time.Duration, log logging.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, tokenValidity: tokenValidity, log: log}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. Validation runs before any hashing or storage
// work: missing fields, malformed email, and short passwords are all 400s.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		h.log.Error(r.Context(), "registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.respondWithToken(w, r, user, "User registered successfully")
}

// Login verifies credentials. Unknown email and wrong password produce the
// same message so the endpoint is not an account-existence oracle.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.log.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.respondWithToken(w, r, user, "Login successful")
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, user *models.User, message string) {
	token, err := auth.GenerateToken(user.ID, user.Email, h.jwtSecret, h.tokenValidity)
	if err != nil {
		h.log.Error(r.Context(), "token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: message,
		Token:   token,
		User:    &userPayload{ID: user.ID, Email: user.Email},
	})
}
