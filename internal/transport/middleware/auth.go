package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/labwatch-backend/internal/auth"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

type tokenVerifier interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

// Auth resolves the bearer token into an actor and role on the context.
// Requests without a token pass through anonymous; a token that fails
// validation is rejected rather than treated as anonymous.
func Auth(verifier tokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			identity, err := verifier.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithActor(r.Context(), identity.Actor)
			ctx = ctxutil.WithRole(ctx, identity.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
