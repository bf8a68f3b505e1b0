// Package context carries request-scoped identity and tracing values.
package context

import "context"

// UserContext is the authenticated caller, as decoded from the access
// token by the auth middleware.
type UserContext struct {
	UserID  string
	Email   string
	Role    string
	IsAdmin bool
}

type userContextKey struct{}

// WithUser stores the caller on the context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns the authenticated caller, or nil for anonymous
// contexts (background jobs, public endpoints).
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}
