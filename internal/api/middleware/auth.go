package middleware

import (
	"context"
	"net/http"

	"pinshop/internal/common"
	"pinshop/internal/common/security"
	"pinshop/internal/domain/model"
	"pinshop/internal/platform/logging"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const SessionCtxKey contextKey = "session"

// SessionCookie carries the session token for browser clients.
const SessionCookie = "jwt"

// tokenFromRequest prefers an Authorization bearer token over the cookie.
func tokenFromRequest(r *http.Request) string {
	if t := jwtauth.TokenFromHeader(r); t != "" {
		return t
	}
	return jwtauth.TokenFromCookie(r)
}

// Authenticator resolves the request's session token and rejects the
// request when there is none or it no longer resolves.
func Authenticator(sessions security.SessionStore, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			sess, ok, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				log.Error(r.Context(), "session lookup failed", "error", err)
				common.RespondWithDomainError(w, common.Errorf("%w: %w", common.ErrStore, err))
				return
			}
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), SessionCtxKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly must run after Authenticator.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok || !sess.IsAdmin() {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SessionFromContext(ctx context.Context) (model.Session, bool) {
	sess, ok := ctx.Value(SessionCtxKey).(model.Session)
	return sess, ok
}
