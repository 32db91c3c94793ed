// Package syncer copies the whole ledger between the local store and a
// remote Postgres peer. The copy is one-shot and never merging: push
// replaces the remote side, pull replaces the local side.
package syncer

import (
	"context"
	"errors"
)

// ErrNotAuthenticated is returned when a sync operation runs without a
// signed-in identity. This is a fatal precondition, never retried.
var ErrNotAuthenticated = errors.New("no authenticated user")

// Identity yields the identifier of the user a sync operation acts for.
// Authentication itself lives outside this package.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, error)
}

type userKey struct{}

// WithUser stores the authenticated user id on the context. The HTTP
// middleware calls this after validating the bearer token.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// ContextIdentity resolves the current user from the request context.
type ContextIdentity struct{}

// CurrentUserID implements Identity.
func (ContextIdentity) CurrentUserID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userKey{}).(string)
	if !ok || id == "" {
		return "", ErrNotAuthenticated
	}
	return id, nil
}

// StaticIdentity is a fixed identity, used in tests and one-off tooling.
type StaticIdentity string

// CurrentUserID implements Identity.
func (s StaticIdentity) CurrentUserID(context.Context) (string, error) {
	if s == "" {
		return "", ErrNotAuthenticated
	}
	return string(s), nil
}
