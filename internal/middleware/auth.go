package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const UserCtxKey = contextKey("user_id")

// TokenResolver resolves a raw Authorization header value (with or without
// the "Bearer " prefix) to a user id.
type TokenResolver interface {
	Resolve(header string) (int64, bool)
}

// Auth resolves the session token and injects the user id into the request
// context. Requests with a missing or unknown token get 401.
func Auth(sessions TokenResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		userID, ok := sessions.Resolve(authHeader)
		if !ok {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Extracting user_id in handler
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserCtxKey).(int64)
	return id, ok
}
