// Package cli implements the interactive vault client: a small REPL over
// the HTTP API with an in-memory unlocked session and guarded clipboard.
package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/passvault-io/passvault/internal/client/api"
	"github.com/passvault-io/passvault/internal/client/clipboard"
	"github.com/passvault-io/passvault/internal/client/config"
	"github.com/passvault-io/passvault/internal/client/models"
	"github.com/passvault-io/passvault/internal/client/session"
)

// AuthClient is the authentication surface the CLI needs.
type AuthClient interface {
	Register(ctx context.Context, email, password string) (*api.AuthResult, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	SetToken(token string)
}

// Vault is the unlocked-session surface the CLI needs.
type Vault interface {
	LoadAll(ctx context.Context) ([]session.Entry, []session.Failure, error)
	Save(ctx context.Context, item *models.VaultItem, existingID string) (*api.Record, error)
	Delete(ctx context.Context, id string) error
	Unlock(password []byte)
	Lock()
	Locked() bool
}

// Copier schedules self-clearing clipboard copies.
type Copier interface {
	CopyWithExpiry(key, value string, ttl time.Duration) error
}

type App struct {
	config    *config.Config
	auth      AuthClient
	vault     Vault
	clipboard Copier
	reader    *bufio.Reader
	userEmail string

	// entries caches the last listing so show/copy/edit/delete can address
	// items by number.
	entries []session.Entry
}

func NewApp(c *config.Config) *App {
	client := api.New(c.ServerEndpointAddr, c.RequestTimeout)

	return &App{
		config:    c,
		auth:      client,
		vault:     session.New(client),
		clipboard: clipboard.NewGuard(),
		reader:    bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.userEmail != "" && !a.vault.Locked()
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
