package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Echo/internal/auth"
	"Echo/internal/core/users"
)

// fakeUsers is an in-memory UserLookup
type fakeUsers map[int64]*users.User

func (f fakeUsers) GetUserByID(_ context.Context, id int64) (*users.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func newTestMiddleware(t *testing.T) (*BearerAuthMiddleware, *auth.TokenManager, fakeUsers) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	known := fakeUsers{
		1: {ID: 1, Username: "alice", IsActive: true},
		2: {ID: 2, Username: "carol", IsActive: false},
	}
	return NewBearerAuthMiddleware(tokens, known), tokens, known
}

func TestRequireAuth_ValidToken(t *testing.T) {
	mw, tokens, known := newTestMiddleware(t)
	token, err := tokens.Issue(known[1])
	require.NoError(t, err)

	var gotUser *users.User
	var gotClaims *auth.Claims
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUser(r)
		gotClaims = GetJWTClaims(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "alice", gotUser.Username)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "alice", gotClaims.Username)
}

func TestRequireAuth_Rejections(t *testing.T) {
	mw, tokens, known := newTestMiddleware(t)

	inactiveToken, err := tokens.Issue(known[2])
	require.NoError(t, err)
	ghostToken, err := tokens.Issue(&users.User{ID: 99, Username: "ghost"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "inactive user", header: "Bearer " + inactiveToken},
		{name: "deleted user", header: "Bearer " + ghostToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodPost, "/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "AuthenticationRequired", body["error"])
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	mw, tokens, known := newTestMiddleware(t)
	token, err := tokens.Issue(known[1])
	require.NoError(t, err)

	var gotID int64
	handler := mw.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r)
	}))

	for header, want := range map[string]int64{
		"":                0,
		"Bearer broken":   0,
		"Bearer " + token: 1,
	} {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, gotID, header)
	}
}

func TestSetTestUser(t *testing.T) {
	ctx := SetTestUser(context.Background(), &users.User{ID: 5})
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	assert.Equal(t, int64(5), GetUserID(req))
}
