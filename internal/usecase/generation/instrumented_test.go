package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/domain"
	"github.com/kailas-cloud/topicd/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

type mockGenerator struct {
	result domain.GenerationResult
	err    error
	calls  int
	block  bool
}

func (m *mockGenerator) Generate(ctx context.Context, _ domain.GenerationRequest) (domain.GenerationResult, error) {
	m.calls++
	if m.block {
		<-ctx.Done()
		return domain.GenerationResult{}, ctx.Err()
	}
	return m.result, m.err
}

var testRequest = domain.GenerationRequest{
	Instruction: "Extract topics.",
	Inputs:      []domain.Field{{Name: "text", Value: "graphs and trees"}},
	Output:      "topics",
}

func TestInstrumentedGenerator_Success(t *testing.T) {
	inner := &mockGenerator{result: domain.GenerationResult{Content: `{"topics":["graphs"]}`}}
	g := NewInstrumentedGenerator(inner, "test", "test-model", nil, zap.NewNop())

	result, err := g.Generate(context.Background(), testRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != `{"topics":["graphs"]}` {
		t.Fatalf("unexpected content: %q", result.Content)
	}
}

func TestInstrumentedGenerator_Error(t *testing.T) {
	inner := &mockGenerator{err: fmt.Errorf("api: %w", domain.ErrGeneration)}
	g := NewInstrumentedGenerator(inner, "test-err", "test-model-e", nil, zap.NewNop())

	_, err := g.Generate(context.Background(), testRequest)
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestInstrumentedGenerator_BudgetRejection(t *testing.T) {
	budget := NewBudgetTracker("test-budget", 100, 0, BudgetActionReject, zap.NewNop())
	budget.Record(100)

	inner := &mockGenerator{result: domain.GenerationResult{Content: "{}"}}
	g := NewInstrumentedGenerator(inner, "test-budget", "test-model-b", budget, zap.NewNop())

	_, err := g.Generate(context.Background(), testRequest)
	if !errors.Is(err, domain.ErrGenerationQuotaExceeded) {
		t.Fatalf("expected domain.ErrGenerationQuotaExceeded, got %v", err)
	}
	if inner.calls != 0 {
		t.Errorf("backend must not be called when budget is exhausted, got %d calls", inner.calls)
	}
}

func TestInstrumentedGenerator_RecordsBudget(t *testing.T) {
	budget := NewBudgetTracker("test-record", 1000000, 10000000, BudgetActionReject, zap.NewNop())

	inner := &mockGenerator{result: domain.GenerationResult{
		Content:          "{}",
		PromptTokens:     400,
		CompletionTokens: 100,
		TotalTokens:      500,
	}}
	g := NewInstrumentedGenerator(inner, "test-record", "test-model-r", budget, zap.NewNop())

	initialDaily := budget.RemainingDaily()
	initialMonthly := budget.RemainingMonthly()

	if _, err := g.Generate(context.Background(), testRequest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := budget.RemainingDaily(); got != initialDaily-500 {
		t.Errorf("expected daily remaining to decrease by 500, got %d -> %d", initialDaily, got)
	}
	if got := budget.RemainingMonthly(); got != initialMonthly-500 {
		t.Errorf("expected monthly remaining to decrease by 500, got %d -> %d", initialMonthly, got)
	}
}

func TestInstrumentedGenerator_ZeroTokensNotRecorded(t *testing.T) {
	budget := NewBudgetTracker("test-zero", 1000, 0, BudgetActionReject, zap.NewNop())

	inner := &mockGenerator{result: domain.GenerationResult{Content: "{}"}}
	g := NewInstrumentedGenerator(inner, "test-zero", "model", budget, zap.NewNop())

	if _, err := g.Generate(context.Background(), testRequest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if budget.DailyUsed() != 0 {
		t.Errorf("expected daily_used=0, got %d", budget.DailyUsed())
	}
}

func TestInstrumentedGenerator_Timeout(t *testing.T) {
	inner := &mockGenerator{block: true}
	g := NewInstrumentedGenerator(inner, "test-timeout", "model", nil, zap.NewNop()).
		WithTimeout(20 * time.Millisecond)

	_, err := g.Generate(context.Background(), testRequest)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
