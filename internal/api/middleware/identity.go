package middleware

import (
	"context"
	"net/http"
)

// UserIDHeader carries the opaque user identity resolved by the fronting
// auth layer. The backend trusts it as-is; token verification is not this
// service's job.
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// Identity extracts the user identity header into the request context.
// Requests without the header pass through anonymously; each operation
// decides whether anonymity is acceptable.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get(UserIDHeader); userID != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the identity stored by Identity, or "" for anonymous
// requests.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// WithUserID returns a context carrying the given identity, bypassing the
// header. Used by tests.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
