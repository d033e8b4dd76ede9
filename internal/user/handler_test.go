package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-auth/internal/auth"
	"game-auth/internal/principal"
)

const testSecret = "test-secret-key-for-profile-handler-0123456789"

type fakeStore struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func (s *fakeStore) GetByUsername(_ context.Context, username string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeStore) Create(_ context.Context, username, passwordHash string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := auth.User{ID: "u1", Username: username, PasswordHash: passwordHash}
	s.users[username] = user
	return user, nil
}

func TestMe(t *testing.T) {
	store := &fakeStore{users: map[string]auth.User{
		"alice": {ID: "u1", Username: "alice", PasswordHash: "$2a$10$x"},
	}}
	tokens := auth.NewTokenService(testSecret, auth.DefaultTokenTTL)
	handler := auth.Middleware(tokens, http.HandlerFunc(NewHandler(principal.NewResolver(store)).Me))

	get := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("AuthenticatedProfile", func(t *testing.T) {
		token, err := tokens.Issue("alice")
		require.NoError(t, err)

		rec := get("Bearer " + token)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "u1", body["id"])
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "USER", body["role"])
	})

	t.Run("NoToken", func(t *testing.T) {
		rec := get("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("AccountDeletedAfterIssuance", func(t *testing.T) {
		token, err := tokens.Issue("bob")
		require.NoError(t, err)

		// bob was never stored, so the token outlives its account.
		rec := get("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "UNAUTHORIZED", body["error"])
		assert.Equal(t, "/api/users/me", body["path"])
	})
}
