package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tribune/internal/auth"
	"tribune/internal/domain/services"
	"tribune/internal/httputil"
)

// Auth verifies the Bearer token when one is present and attaches the
// caller to the request context. Requests without a token pass through
// anonymous: listing endpoints are public, and write handlers reject
// missing callers themselves. A token that is present but invalid is a
// hard 401 so clients never silently degrade to anonymous.
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "authorization header must use the Bearer scheme")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token verification failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			caller := &services.Caller{
				ID:       claims.GetUserID(),
				Username: claims.Username,
				IsStaff:  claims.IsStaff,
			}
			next.ServeHTTP(w, httputil.WithCaller(r, caller))
		})
	}
}
