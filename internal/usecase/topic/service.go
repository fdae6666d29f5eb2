package topic

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/domain"
	"github.com/kailas-cloud/topicd/internal/logger"
)

// Service runs the topic extraction and matching steps against a text-generation backend.
type Service struct {
	gen Generator
}

// New creates a Service.
func New(gen Generator) *Service {
	return &Service{gen: gen}
}

// ExtractTopics returns the topics the backend finds in text.
// The list is returned as produced: no dedup, no filtering.
func (s *Service) ExtractTopics(ctx context.Context, text string) (domain.Topics, error) {
	req := domain.GenerationRequest{
		Instruction: extractInstruction,
		Inputs:      []domain.Field{{Name: extractInput, Value: text}},
		Output:      extractOutput,
	}
	return s.run(ctx, req)
}

// MatchTopics returns the candidates the backend considers most relevant to material.
// The backend may rephrase or merge candidates; the result is not checked against them.
func (s *Service) MatchTopics(ctx context.Context, material string, candidates []string) (domain.Topics, error) {
	if candidates == nil {
		candidates = []string{}
	}
	encoded, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("encode candidates: %w", err)
	}

	req := domain.GenerationRequest{
		Instruction: matchInstruction,
		Inputs: []domain.Field{
			{Name: matchMaterialInput, Value: material},
			{Name: matchTopicsInput, Value: string(encoded)},
		},
		Output:            matchOutput,
		OutputDescription: matchOutputDesc,
	}
	return s.run(ctx, req)
}

// Analyze extracts topics from the first fetched document.
func (s *Service) Analyze(ctx context.Context, docs domain.Documents) (domain.Analysis, error) {
	id, text, ok := docs.First()
	if !ok {
		return domain.Analysis{}, domain.ErrNoDocuments
	}
	logger.FromContext(ctx).Debug("Extracting topics", zap.String("file_id", id))

	topics, err := s.ExtractTopics(ctx, text)
	if err != nil {
		return domain.Analysis{}, err
	}
	return domain.Analysis{Topics: topics, FileCount: docs.Count()}, nil
}

// AnalyzeMatch matches candidates against the first fetched document.
func (s *Service) AnalyzeMatch(ctx context.Context, docs domain.Documents, candidates []string) (domain.Analysis, error) {
	id, text, ok := docs.First()
	if !ok {
		return domain.Analysis{}, domain.ErrNoDocuments
	}
	logger.FromContext(ctx).Debug("Matching topics", zap.String("file_id", id))

	topics, err := s.MatchTopics(ctx, text, candidates)
	if err != nil {
		return domain.Analysis{}, err
	}
	return domain.Analysis{Topics: topics, FileCount: docs.Count()}, nil
}

func (s *Service) run(ctx context.Context, req domain.GenerationRequest) (domain.Topics, error) {
	res, err := s.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return domain.DecodeTopics(res.Content, req.Output)
}
