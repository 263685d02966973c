//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/reelhouse/internal/api"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/config"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/models"
	"github.com/stwalsh4118/reelhouse/internal/server"
)

// testEnv is a running API server backed by a migrated temp-file database
type testEnv struct {
	baseURL string
	repos   *db.Repositories
	client  *http.Client
}

// migrationsPath resolves the migrations directory relative to this file
// so tests work regardless of working directory
func migrationsPath(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	rootDir := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	return "file://" + filepath.Join(rootDir, "migrations")
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.New(filepath.Join(t.TempDir(), "integration.db"))
	require.NoError(t, err, "Failed to create database")
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(migrationsPath(t)), "Failed to run migrations")

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Logging: config.LoggingConfig{Level: "info"},
		Auth: config.AuthConfig{
			Secret:     "integration-secret-0123456789abcdef",
			Issuer:     "reelhouse",
			Audience:   "reelhouse-api",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
	}
	tokens, err := auth.NewTokenService(cfg.Auth)
	require.NoError(t, err, "Failed to create token service")

	ts := httptest.NewServer(server.New(cfg, database, tokens).Handler())
	t.Cleanup(ts.Close)

	return &testEnv{
		baseURL: ts.URL + "/api/v1",
		repos:   db.NewRepositories(database),
		client:  ts.Client(),
	}
}

// call sends a JSON request and decodes the response into out when out is non-nil
func (e *testEnv) call(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, e.baseURL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) register(t *testing.T, name, email string) api.AuthResponse {
	t.Helper()

	var session api.AuthResponse
	status := e.call(t, http.MethodPost, "/auth/register", "", api.RegisterRequest{
		FullName: name,
		Email:    email,
		Password: "correct-horse",
	}, &session)
	require.Equal(t, http.StatusCreated, status)
	return session
}

// promote grants ADMIN directly in the database; the caller's existing token picks it up
func (e *testEnv) promote(t *testing.T, userID string) {
	t.Helper()

	ctx := context.Background()
	role, err := e.repos.Roles.GetByName(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, e.repos.Users.UpdateRole(ctx, uuid.MustParse(userID), role.ID))
}
