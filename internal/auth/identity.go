package auth

import (
	"context"

	"github.com/google/uuid"

	"agencysite/internal/model"
)

type identityKey struct{}

// Identity is the authenticated admin bound to the current request.
type Identity struct {
	SessionToken string
	AdminID      uuid.UUID
	Email        string
	Role         model.Role
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
