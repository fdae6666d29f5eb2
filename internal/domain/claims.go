package domain

import (
	"context"
	"time"
)

// Claims is the decoded payload of a verified identity token.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	AuthTime  time.Time
	Custom    map[string]any
}

// Valid reports whether the claims came from a verified token.
func (c Claims) Valid() bool {
	return c.Subject != ""
}

type claimsKey struct{}

// ContextWithClaims stores verified claims in the context.
func ContextWithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims placed by the auth middleware.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(Claims)
	return c, ok
}
