package gencache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/db"
	"github.com/kailas-cloud/topicd/internal/domain"
)

type mockGenerator struct {
	result domain.GenerationResult
	err    error
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context, _ domain.GenerationRequest) (domain.GenerationResult, error) {
	m.calls++
	return m.result, m.err
}

// sequenceGenerator answers with contents in order, repeating the last one.
type sequenceGenerator struct {
	contents []string
	calls    int
}

func (s *sequenceGenerator) Generate(_ context.Context, _ domain.GenerationRequest) (domain.GenerationResult, error) {
	content := s.contents[min(s.calls, len(s.contents)-1)]
	s.calls++
	return domain.GenerationResult{Content: content, TotalTokens: 5}, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedGenerator(t *testing.T, inner *mockGenerator) (*CachedGenerator, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cg := New(inner, ms, "test-model", time.Hour, nil, zap.NewNop())
	return cg, ms
}
