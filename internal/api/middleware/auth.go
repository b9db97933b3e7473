package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"Echo/internal/api/handlers"
	"Echo/internal/auth"
	"Echo/internal/core/users"
)

// Context keys for storing user information
type contextKey string

const (
	UserKey      contextKey = "user"
	JWTClaimsKey contextKey = "jwt_claims"
)

// TokenVerifier validates a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLookup resolves the user a token was issued to
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*users.User, error)
}

// BearerAuthMiddleware enforces bearer token authentication for protected routes
type BearerAuthMiddleware struct {
	verifier TokenVerifier
	users    UserLookup
}

// NewBearerAuthMiddleware creates a new bearer auth middleware
func NewBearerAuthMiddleware(verifier TokenVerifier, userLookup UserLookup) *BearerAuthMiddleware {
	return &BearerAuthMiddleware{
		verifier: verifier,
		users:    userLookup,
	}
}

// RequireAuth middleware ensures the request carries a valid token for an active user
// If not authenticated, returns 401
// If authenticated, injects the user and claims into context
func (m *BearerAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		user, claims, err := m.authenticate(r.Context(), token)
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		ctx = context.WithValue(ctx, JWTClaimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the user if a valid token is present, but doesn't require one
func (m *BearerAuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		user, claims, err := m.authenticate(r.Context(), token)
		if err != nil {
			log.Printf("Optional auth failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		ctx = context.WithValue(ctx, JWTClaimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *BearerAuthMiddleware) authenticate(ctx context.Context, token string) (*users.User, *auth.Claims, error) {
	claims, err := m.verifier.Verify(token)
	if err != nil {
		return nil, nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, err
	}

	user, err := m.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, users.ErrInactiveUser
	}

	return user, claims, nil
}

// GetUser extracts the authenticated user from the request context
// Returns nil if not authenticated
func GetUser(r *http.Request) *users.User {
	user, _ := r.Context().Value(UserKey).(*users.User)
	return user
}

// GetUserID returns the authenticated user's id, or 0 for anonymous requests
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetJWTClaims extracts the JWT claims from the request context
// Returns nil if not authenticated
func GetJWTClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(JWTClaimsKey).(*auth.Claims)
	return claims
}

// SetTestUser sets the user in the context for testing purposes
// This function should ONLY be used in tests to mock authenticated users
func SetTestUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", message)
}
