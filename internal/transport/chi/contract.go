package chi

import (
	"context"

	"github.com/kailas-cloud/topicd/internal/domain"
	healthuc "github.com/kailas-cloud/topicd/internal/usecase/health"
)

// TokenVerifier turns a bearer token into caller claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Claims, error)
}

// DocumentFetcher retrieves the text of the requested files, best-effort.
type DocumentFetcher interface {
	Fetch(ctx context.Context, ids []string) domain.Documents
}

// TopicAnalyzer runs the topic pipeline over fetched documents.
type TopicAnalyzer interface {
	Analyze(ctx context.Context, docs domain.Documents) (domain.Analysis, error)
	AnalyzeMatch(ctx context.Context, docs domain.Documents, candidates []string) (domain.Analysis, error)
}

// HealthChecker aggregates dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// UsageReporter reports generation token consumption.
type UsageReporter interface {
	GetReport(ctx context.Context, period domain.Period) domain.UsageReport
}
