package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-hr/meridian-access/internal/platform/httpx"
	"github.com/meridian-hr/meridian-access/internal/shared"
)

// Middleware authenticates callers and stores the principal in context.
type Middleware struct {
	Verifier *Verifier
	Logger   *slog.Logger
}

// RequireBearer rejects requests without a valid bearer token.
func (m Middleware) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		principal, err := m.Verifier.ParseToken(raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("reject bearer token", slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid bearer token")
			return
		}
		ctx := shared.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireServiceKey guards platform-internal endpoints with the
// X-Service-Key header.
func (m Middleware) RequireServiceKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.Verifier.VerifyServiceKey(r.Header.Get("X-Service-Key")); err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid service key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
