package auth

import (
	"context"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// TokenVerifier checks a raw ID token against the identity provider.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (domain.Claims, error)
}
