package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hacklabconnect/internal/platform/middleware"
)

// CookieName carries the session token between requests. The Authorization
// header is accepted as an alternative for non-browser clients.
const CookieName = "hacklab_session"

type contextKeyIdentity struct{}

// FromContext returns the resolved Identity of the request, or Anonymous
// when the resolver middleware did not run.
func FromContext(ctx context.Context) Identity {
	ident, ok := ctx.Value(contextKeyIdentity{}).(Identity)
	if !ok {
		return Anonymous
	}
	return ident
}

// WithIdentity injects an identity into a context. For service and handler
// tests that skip the HTTP middleware chain.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity{}, ident)
}

// Middleware resolves the request credentials into an Identity and stashes
// it in the context. It never rejects: anonymous requests pass through and
// the authorization gate decides downstream. When the resolver rotates the
// session, the fresh token is written to the response cookie here, before
// any handler output.
func Middleware(resolver *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)

			ident, rotated, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				// Store failure, not a credential problem. The request
				// proceeds anonymously rather than failing outright.
				logger.ErrorContext(r.Context(), "session resolution failed",
					"error", err.Error(),
					"request_id", middleware.GetRequestID(r.Context()),
				)
				ident = Anonymous
			}

			if rotated != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    rotated,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClearCookie expires the session cookie on the response.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}
