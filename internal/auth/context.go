package auth

import (
	"context"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, id access.Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

// IdentityFromContext returns the caller resolved by AuthMiddleware, or
// ErrUnauthenticated when the request carries none.
func IdentityFromContext(ctx context.Context) (access.Identity, error) {
	if ctx == nil {
		return access.Identity{}, apperrors.ErrUnauthenticated
	}
	id, ok := ctx.Value(ContextIdentityKey).(access.Identity)
	if !ok || !id.Role.Valid() {
		return access.Identity{}, apperrors.ErrUnauthenticated
	}
	return id, nil
}
