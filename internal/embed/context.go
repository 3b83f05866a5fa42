package embed

import "context"

type contextKey string

const contextKeyIdentity contextKey = "embed.identity"

// Identity is who an embedded simulation is prepared for.
type Identity struct {
	PartnerID     string
	Subject       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// WithIdentity stores the identity in context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, identity)
}

// IdentityFromContext extracts the identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(contextKeyIdentity).(Identity)
	return identity, ok
}
