package embed

import (
	"net/http"
	"strings"
)

const tokenQueryParam = "embed_token"

// Middleware attaches the embed identity when a token is presented.
// Requests without a token pass through untouched; a bad token is rejected.
type Middleware struct {
	Secret []byte
}

// NewMiddleware constructs middleware. A nil result disables embeds.
func NewMiddleware(secret []byte) *Middleware {
	if len(secret) == 0 {
		return nil
	}
	return &Middleware{Secret: secret}
}

// Wrap applies the middleware to the handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := ParseJWT(token, m.Secret)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.Identity())))
	})
}

func extractToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(r.URL.Query().Get(tokenQueryParam))
}
