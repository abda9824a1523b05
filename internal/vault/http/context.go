// Package http provides HTTP handlers and middleware for vault operations.
package http

import (
	"context"

	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// callerKey is a context key type for storing the request caller identity.
type callerKey struct{}

// WithCaller stores the caller identity in the context.
// This is typically called by the caller identity middleware.
func WithCaller(ctx context.Context, caller vaultDomain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// GetCaller retrieves the caller identity from the context.
// Returns (caller, true) if a caller is present, or (zero, false) if none was set.
func GetCaller(ctx context.Context) (vaultDomain.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(vaultDomain.Caller)
	return caller, ok
}
