package gencache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/db"
	"github.com/kailas-cloud/topicd/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "gen_cache:"

// store is the consumer interface for the generation cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// entry is the cached form of a generation. Token counts are not kept.
type entry struct {
	Content string `json:"content"`
}

// CachedGenerator caches backend output keyed by model and prompt.
type CachedGenerator struct {
	inner      domain.Generator
	store      store
	model      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Generator,
	s store,
	model string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGenerator {
	return &CachedGenerator{
		inner:      inner,
		store:      s,
		model:      model,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Generate returns cached content or calls the inner generator.
// A hit reports zero tokens so the budget is not charged twice.
func (c *CachedGenerator) Generate(
	ctx context.Context, req domain.GenerationRequest,
) (domain.GenerationResult, error) {
	key := c.cacheKey(req)

	if content, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.GenerationResult{Content: content}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Generate(ctx, req)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate: %w", err)
	}

	// an answer the pipeline would reject is not cached; the next call retries the backend
	if _, err := domain.DecodeTopics(result.Content, req.Output); err == nil {
		c.putToCache(ctx, key, result.Content)
	}
	return result, nil
}

func (c *CachedGenerator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes every prompt part with a separator so that field boundaries count.
func (c *CachedGenerator) cacheKey(req domain.GenerationRequest) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	write(c.model)
	write(req.Instruction)
	for _, f := range req.Inputs {
		write(f.Name)
		write(f.Value)
	}
	write(req.Output)
	write(req.OutputDescription)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedGenerator) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached generation", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cached generation", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return e.Content, true
}

func (c *CachedGenerator) putToCache(ctx context.Context, key, content string) {
	data, err := json.Marshal(entry{Content: content})
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache generation", zap.String("key", key), zap.Error(err))
	}
}
