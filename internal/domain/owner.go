package domain

import (
	"context"
	"errors"
)

// Owner is the authenticated principal whose buckets and ledger are in use.
// It is supplied by the authentication layer, never by request bodies.
type Owner struct {
	ID    string
	Email string
}

type ownerContextKey struct{}

// ContextWithOwner stores the authenticated owner in ctx.
func ContextWithOwner(ctx context.Context, owner *Owner) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, owner)
}

// OwnerFromContext extracts the authenticated owner from ctx.
func OwnerFromContext(ctx context.Context) (*Owner, bool) {
	owner, ok := ctx.Value(ownerContextKey{}).(*Owner)
	if !ok || owner == nil || owner.ID == "" {
		return nil, false
	}
	return owner, true
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
