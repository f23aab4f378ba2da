package middleware

import (
	"context"

	"github.com/cybergodev/jws"
)

type claimsContextKey struct{}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims jws.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (jws.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(jws.Claims)
	return claims, ok
}
