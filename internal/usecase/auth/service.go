package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/domain"
	"github.com/kailas-cloud/topicd/internal/logger"
	"github.com/kailas-cloud/topicd/internal/metrics"
)

// Service turns bearer tokens into claims. Every failure collapses to
// domain.ErrUnauthorized so callers cannot tell an expired token from garbage.
type Service struct {
	verifier TokenVerifier
}

// New creates a Service.
func New(verifier TokenVerifier) *Service {
	return &Service{verifier: verifier}
}

// Verify returns the token's claims or domain.ErrUnauthorized.
func (s *Service) Verify(ctx context.Context, token string) (domain.Claims, error) {
	if token == "" {
		metrics.AuthFailuresTotal.Inc()
		return domain.Claims{}, domain.ErrUnauthorized
	}

	claims, err := s.verifier.VerifyIDToken(ctx, token)
	if err != nil {
		metrics.AuthFailuresTotal.Inc()
		logger.FromContext(ctx).Debug("Token rejected", zap.Error(err))
		return domain.Claims{}, domain.ErrUnauthorized
	}
	if !claims.Valid() {
		metrics.AuthFailuresTotal.Inc()
		return domain.Claims{}, fmt.Errorf("token without subject: %w", domain.ErrUnauthorized)
	}

	return claims, nil
}
