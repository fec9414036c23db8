package middleware

import (
	"context"

	"github.com/ratewise/store-ratings-backend/internal/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the authenticated principal, if any.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	if v, ok := ctx.Value(ctxIdentity).(*auth.Identity); ok && v != nil {
		return v, true
	}
	return nil, false
}

// WithIdentity injects the authenticated principal into the context.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}
