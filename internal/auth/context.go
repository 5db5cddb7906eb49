package auth

import "context"

type identityContextKey struct{}

// ContextWithIdentity attaches a verified identity to the context.
// Downstream stages treat the value as read-only.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext extracts the verified identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || v.UserID <= 0 {
		return Identity{}, false
	}
	return v, true
}
