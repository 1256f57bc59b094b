package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys so no other package can
// collide with (or spoof) the principal stored in a request context.
type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a copy of ctx carrying p. Exposed for tests and for
// the middleware below; handlers read it back with PrincipalFromContext.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal attached to the request, or the
// anonymous principal if none was set.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey).(Principal); ok {
		return p
	}
	return Anonymous()
}

// Middleware annotates every request with a Principal and never rejects.
//
// All snippet and user routes run under this: reads must stay open to
// anonymous callers, and for writes the service layer decides between 403
// "unauthenticated" and 403 "not the owner" — a 401 short-circuit here would
// preempt that decision. A missing or invalid token simply yields the
// anonymous principal.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := Anonymous()
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				p = Principal{UserID: userID, Authenticated: true}
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAuth gates routes that make no sense anonymously (e.g. /auth/me).
// Unlike the snippet write paths, these answer 401: the caller's problem is
// a missing credential, not a permission rule.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil || userID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}
			p := Principal{UserID: userID, Authenticated: true}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// extractUserID pulls a token from the Authorization header (API clients) or
// the "token" HttpOnly cookie (browser sessions from the OAuth flow) and
// validates it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if tokenStr, ok := strings.CutPrefix(header, "Bearer "); ok {
			return tokens.Validate(tokenStr)
		}
	}

	cookie, err := r.Cookie("token")
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
