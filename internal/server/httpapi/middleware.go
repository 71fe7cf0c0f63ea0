package httpapi

import (
	"context"
	"net/http"

	"github.com/passvault-io/passvault/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the verified caller passed down to handlers. Downstream code
// trusts it; all verification happens here.
type Identity struct {
	UserID string
	Email  string
}

// Authenticate rejects requests without a valid "Authorization: Bearer"
// token. Missing headers, foreign schemes, bad signatures, and expired
// tokens all fail closed with the same 401 response.
func Authenticate(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractBearer(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := auth.VerifyToken(token, jwtSecret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, &Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerIdentity returns the verified identity set by Authenticate, or nil.
func CallerIdentity(r *http.Request) *Identity {
	id, _ := r.Context().Value(identityKey).(*Identity)
	return id
}
