package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tcgdecks/api/pkg/models"
)

const CLAIMS_CTX_KEY = "claims"

// RequireAuth rejects any request without a valid bearer token. On success
// the decoded claims are placed in the request context under CLAIMS_CTX_KEY.
func (m *TokenManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		var token string
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}

		if len(token) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write(models.CreateError("missing token"))
			return
		}

		claims, err := m.Verify(token)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write(models.CreateError("invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), CLAIMS_CTX_KEY, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims placed by RequireAuth, or nil when the
// request never went through the middleware.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(CLAIMS_CTX_KEY).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
