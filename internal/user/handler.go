package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"game-auth/internal/auth"
	"game-auth/internal/principal"
)

// Handler serves the authenticated user's own profile. It runs behind the
// bearer middleware, which has already verified the token and put the
// subject username on the context.
type Handler struct {
	resolver *principal.Resolver
}

func NewHandler(resolver *principal.Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing authenticated subject")
		return
	}

	p, err := h.resolver.Resolve(r.Context(), subject)
	if err != nil {
		if errors.Is(err, principal.ErrPrincipalNotFound) {
			// The account vanished after the token was issued.
			writeError(w, r, http.StatusUnauthorized, "account no longer exists")
			return
		}

		sentry.CaptureException(err)
		writeError(w, r, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	label := strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	writeJSON(w, status, map[string]any{
		"timestamp": time.Now().UTC(),
		"status":    status,
		"error":     label,
		"message":   message,
		"path":      r.URL.Path,
	})
}
