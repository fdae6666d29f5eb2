package topic

import (
	"context"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// Generator produces structured JSON output for a prompt.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}
