package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

var subjectKey contextKey

// SubjectFromContext returns the username the bearer middleware verified
// for this request.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok && subject != ""
}

// Middleware authenticates requests with an Authorization: Bearer header.
// Malformed, tampered and expired tokens all produce the same 401 so no
// internal detail leaks to the caller.
func Middleware(tokens *TokenService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeAPIError(w, r, http.StatusUnauthorized, "missing authorization token")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeAPIError(w, r, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			writeAPIError(w, r, http.StatusUnauthorized, "invalid authorization token")
			return
		}

		claims, err := tokens.ParseAndVerify(tokenStr)
		if err != nil {
			writeAPIError(w, r, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
