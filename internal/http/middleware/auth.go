package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/ledger/internal/auth"
)

// TokenCookie is the cookie checked when no Authorization header is sent.
const TokenCookie = "ledger_token"

type claimsKey struct{}

// Auth rejects requests without a valid bearer token. The token is read from
// the Authorization header, then the token query parameter, then TokenCookie.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFrom(r)
			if token == "" {
				http.Error(w, "authorization token not provided", http.StatusUnauthorized)
				return
			}

			claims, err := auth.Parse(secret, token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// Claims returns the token claims stored by Auth, if any.
func Claims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

func tokenFrom(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}

		return ""
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}

	return ""
}
