package auth

import (
	"context"

	"campus-gig-workers/internal/models"
)

// Credentials is what a job asserts about its caller. Resolvers decide which
// field they trust.
type Credentials struct {
	CallerID    string `json:"callerId,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// Resolver turns asserted credentials into a verified caller.
type Resolver interface {
	Resolve(ctx context.Context, creds Credentials) (models.Caller, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, creds Credentials) (models.Caller, error)

func (f ResolverFunc) Resolve(ctx context.Context, creds Credentials) (models.Caller, error) {
	return f(ctx, creds)
}
