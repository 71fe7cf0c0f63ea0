package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/passvault-io/passvault/internal/logging"
)

// RouterConfig carries the settings the HTTP surface needs.
type RouterConfig struct {
	JWTSecret      []byte
	TokenValidity  time.Duration
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter assembles the chi router: public auth endpoints, bearer-gated
// vault CRUD, and a health check.
func NewRouter(cfg RouterConfig, log logging.Logger, users UserService, records RecordService) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	authHandler := NewAuthHandler(users, cfg.JWTSecret, cfg.TokenValidity, log)
	vaultHandler := NewVaultHandler(records, log)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(cfg.JWTSecret))

		r.Route("/vault", func(r chi.Router) {
			r.Get("/", vaultHandler.List)
			r.Post("/", vaultHandler.Create)
			r.Put("/{id}", vaultHandler.Update)
			r.Delete("/{id}", vaultHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
