package chi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/domain"
	"github.com/kailas-cloud/topicd/internal/logger"
	"github.com/kailas-cloud/topicd/internal/metrics"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

const bearerPrefix = "bearer "

// BearerAuthMiddleware verifies the bearer token of every non-exempt request and
// stores the caller claims in the request context. Every rejection gets the same 401.
func BearerAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				metrics.AuthFailuresTotal.Inc()
				writeError(w, http.StatusUnauthorized, codeUnauthorized, unauthorizedMessage)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil || !claims.Valid() {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, unauthorizedMessage)
				return
			}

			ctx := domain.ContextWithClaims(r.Context(), claims)
			ctx = logger.With(ctx, zap.String("subject", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
