package httpx

import (
	"context"

	domainauth "github.com/gatehouse/gatehouse/internal/domain/auth"
)

// userKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type userKey struct{}

// SetUserInContext returns a child context that carries the resolved user.
// If user is nil, the original ctx is returned unchanged.
func SetUserInContext(ctx context.Context, user *domainauth.UserRef) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the resolved user from context and whether one is present.
func UserFromContext(ctx context.Context) (*domainauth.UserRef, bool) {
	if user, ok := ctx.Value(userKey{}).(*domainauth.UserRef); ok && user != nil {
		return user, true
	}
	return nil, false
}
