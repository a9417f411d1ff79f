package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/flatfile"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/security"
	"github.com/api-sage/account-ledger/src/internal/session"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (c apiClient) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)

	var env envelope
	if rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr.Code, env
}

func newServer(t *testing.T) apiClient {
	t.Helper()
	dir := t.TempDir()
	engine := services.NewLedgerService(
		memory.NewAccountStore(),
		flatfile.NewSnapshotRepository(filepath.Join(dir, "accounts.db")),
		flatfile.NewTransactionLog(filepath.Join(dir, "transactions")),
		security.SHA256Hasher{},
	)
	require.NoError(t, engine.Load(context.Background()))
	sessions := session.NewManager("router-test-secret", time.Hour)

	mux := router.New(
		controller.NewAccountController(engine),
		controller.NewSessionController(engine, sessions),
		controller.NewLedgerController(engine),
		controller.NewAdminController(engine),
		controller.NewHealthController(engine, sessions),
		middleware.SessionAuth(sessions),
	)
	return apiClient{t: t, handler: mux}
}

func login(t *testing.T, c apiClient, username, password string) string {
	t.Helper()
	status, env := c.do(http.MethodPost, "/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func TestLedgerAPIEndToEnd(t *testing.T) {
	c := newServer(t)

	status, env := c.do(http.MethodPost, "/accounts", "", map[string]string{
		"username": "alice", "password": "pass1", "confirmPassword": "pass1", "initialBalance": "100.0",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	status, _ = c.do(http.MethodPost, "/accounts", "", map[string]string{
		"username": "bob", "password": "pass2", "confirmPassword": "pass2",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env = c.do(http.MethodPost, "/accounts", "", map[string]string{
		"username": "alice", "password": "pass1", "confirmPassword": "pass1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username already exists.", env.Message)

	aliceToken := login(t, c, "alice", "pass1")

	status, env = c.do(http.MethodPost, "/withdraw", aliceToken, map[string]string{"amount": "150"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Insufficient funds.", env.Message)

	status, env = c.do(http.MethodPost, "/deposit", aliceToken, map[string]string{"amount": "0"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.ErrInvalidAmount.Error(), env.Message)

	status, env = c.do(http.MethodPost, "/transfer", aliceToken, map[string]string{"to": "bob", "amount": "40.0"})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = c.do(http.MethodPost, "/transfer", aliceToken, map[string]string{"to": "carol", "amount": "1"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Account not found.", env.Message)

	status, env = c.do(http.MethodGet, "/balance", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	var balance struct {
		Username string `json:"username"`
		Balance  string `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.Equal(t, "alice", balance.Username)
	assert.Equal(t, "60.00", balance.Balance)

	status, env = c.do(http.MethodGet, "/history", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	var history []struct {
		Type    string `json:"type"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "DEPOSIT", history[0].Type)
	assert.Equal(t, "TRANSFER_OUT", history[1].Type)
	assert.Equal(t, "To bob", history[1].Details)

	status, _ = c.do(http.MethodGet, "/admin/accounts", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	adminToken := login(t, c, "admin", "admin")
	status, env = c.do(http.MethodGet, "/admin/accounts", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var listing []struct {
		Username string `json:"username"`
		Balance  string `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing, 3)
	assert.Equal(t, "admin", listing[0].Username)
	assert.Equal(t, "alice", listing[1].Username)
	assert.Equal(t, "bob", listing[2].Username)
	assert.Equal(t, "40.00", listing[2].Balance)

	status, _ = c.do(http.MethodPost, "/logout", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodGet, "/balance", aliceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLedgerAPILoginFailuresAreUniform(t *testing.T) {
	c := newServer(t)
	_, _ = c.do(http.MethodPost, "/accounts", "", map[string]string{
		"username": "alice", "password": "pass1", "confirmPassword": "pass1",
	})

	wrongStatus, wrong := c.do(http.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "nope"})
	unknownStatus, unknown := c.do(http.MethodPost, "/login", "", map[string]string{"username": "mallory", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.Equal(t, wrongStatus, unknownStatus)
	assert.Equal(t, "Invalid credentials.", wrong.Message)
	assert.Equal(t, wrong.Message, unknown.Message)
}

func TestLedgerAPIRequiresSession(t *testing.T) {
	c := newServer(t)

	for _, path := range []string{"/balance", "/history", "/admin/accounts"} {
		status, _ := c.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
	status, _ := c.do(http.MethodPost, "/deposit", "not-a-token", map[string]string{"amount": "1"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHealthAndSwagger(t *testing.T) {
	c := newServer(t)

	status, env := c.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	req := httptest.NewRequest(http.MethodGet, "/swagger/openapi.json", nil)
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/transfer")
}
