package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/cryptox"
	"github.com/passvault-io/passvault/internal/logging"
	"github.com/passvault-io/passvault/internal/server/auth"
	"github.com/passvault-io/passvault/internal/server/models"
)

var testSecret = []byte("test-secret")

type fakeUsers struct {
	seq   int
	users map[string]*models.User // email -> user
	pws   map[string]string      // email -> plaintext (test only)
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*models.User), pws: make(map[string]string)}
}

func (f *fakeUsers) Register(ctx context.Context, email, password string) (*models.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.seq++
	u := &models.User{ID: fmt.Sprintf("u%d", f.seq), Email: email}
	f.users[email] = u
	f.pws[email] = password
	return u, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok || f.pws[email] != password {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}

type fakeRecords struct {
	seq     int
	records map[string]*models.VaultRecord
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: make(map[string]*models.VaultRecord)}
}

func (f *fakeRecords) List(ctx context.Context, ownerID string) ([]*models.VaultRecord, error) {
	result := make([]*models.VaultRecord, 0)
	for _, r := range f.records {
		if r.UserID == ownerID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

func (f *fakeRecords) Create(ctx context.Context, ownerID string, env cryptox.Wire) (*models.VaultRecord, error) {
	f.seq++
	now := time.Now()
	r := &models.VaultRecord{
		ID: fmt.Sprintf("r%d", f.seq), UserID: ownerID, Envelope: env,
		CreatedAt: now, UpdatedAt: now,
	}
	f.records[r.ID] = r
	return r, nil
}

func (f *fakeRecords) Update(ctx context.Context, id, ownerID string, env cryptox.Wire) (*models.VaultRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if r.UserID != ownerID {
		return nil, common.ErrorForbidden
	}
	r.Envelope = env
	r.UpdatedAt = time.Now()
	return r, nil
}

func (f *fakeRecords) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	r, ok := f.records[id]
	if !ok || r.UserID != ownerID {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeUsers, *fakeRecords) {
	t.Helper()
	users := newFakeUsers()
	records := newFakeRecords()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := NewRouter(RouterConfig{
		JWTSecret:      testSecret,
		TokenValidity:  auth.TokenValidityDuration,
		RequestTimeout: 10 * time.Second,
	}, log, users, records)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, users, records
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestRegister_Validation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing password", map[string]string{"email": "a@b.co"}, "Email and password are required"},
		{"bad email", map[string]string{"email": "not-an-email", "password": "password123"}, "Invalid email format"},
		{"short password", map[string]string{"email": "a@b.co", "password": "short"}, "Password must be at least 8 characters long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, false, body["success"])
			require.Equal(t, tc.want, body["message"])
		})
	}
}

func TestAuthAndVaultScenario(t *testing.T) {
	srv, _, records := newTestServer(t)

	// register alice
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "",
		map[string]string{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])
	aliceToken, _ := body["token"].(string)
	require.NotEmpty(t, aliceToken)
	user := body["user"].(map[string]any)
	require.Equal(t, "alice@example.com", user["email"])

	// duplicate email
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "",
		map[string]string{"email": "alice@example.com", "password": "password456"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "User with this email already exists", body["message"])

	// login with wrong password: uniform message
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "wrongpassword"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid email or password", body["message"])

	// login with unknown email: same message
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "",
		map[string]string{"email": "ghost@example.com", "password": "password123"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid email or password", body["message"])

	// create a vault item
	envelope := map[string]any{"encryptedData": map[string]string{"data": "ZGF0YQ==", "salt": "c2FsdA==", "iv": "aXY="}}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/vault", aliceToken, envelope)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := body["data"].(map[string]any)
	recordID, _ := created["id"].(string)
	require.NotEmpty(t, recordID)

	// incomplete envelope rejected
	bad := map[string]any{"encryptedData": map[string]string{"data": "ZGF0YQ==", "salt": "c2FsdA=="}}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/vault", aliceToken, bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid encrypted data format", body["message"])

	// register bob and try to touch alice's record
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "",
		map[string]string{"email": "bob@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bobToken, _ := body["token"].(string)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/vault/"+recordID, bobToken, envelope)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/vault/"+recordID, bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// record must still be there for alice
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/vault", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	require.Len(t, records.records, 1)

	// update then delete as alice
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/vault/"+recordID, aliceToken, envelope)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/vault/"+recordID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	// unknown id now 404
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/vault/"+recordID, aliceToken, envelope)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVault_RequiresBearer(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// no token
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/vault", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// wrong scheme
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/vault", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	require.Equal(t, http.StatusUnauthorized, raw.StatusCode)

	// expired token
	expired, err := auth.GenerateToken("u1", "a@b.co", testSecret, -time.Hour)
	require.NoError(t, err)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/vault", expired, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// token signed with another secret
	foreign, err := auth.GenerateToken("u1", "a@b.co", []byte("other"), time.Hour)
	require.NoError(t, err)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/vault", foreign, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
