package usage

import (
	"context"
	"time"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// Service handles usage reporting.
type Service struct {
	br       BudgetReader
	provider string
	model    string
	now      func() time.Time
}

// New creates a Service. br can be nil (budget disabled).
func New(br BudgetReader, provider, model string) *Service {
	return &Service{br: br, provider: provider, model: model, now: time.Now}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domain.Period) domain.UsageReport {
	now := s.now().UTC()
	r := domain.UsageReport{
		Period:    period,
		Provider:  s.provider,
		Model:     s.model,
		Limit:     -1,
		Remaining: -1,
	}

	var start, end time.Time
	switch period {
	case domain.PeriodDay:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 0, 1)
		if s.br != nil {
			r.TokensUsed = s.br.DailyUsed()
			r.Remaining = s.br.RemainingDaily()
			if l := s.br.DailyLimit(); l > 0 {
				r.Limit = l
			}
		}
	default:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		if s.br != nil {
			r.TokensUsed = s.br.MonthlyUsed()
			r.Remaining = s.br.RemainingMonthly()
			if l := s.br.MonthlyLimit(); l > 0 {
				r.Limit = l
			}
		}
	}

	r.PeriodStart = start.UnixMilli()
	r.PeriodEnd = end.UnixMilli()
	r.Exhausted = r.Limit > 0 && r.Remaining == 0
	return r
}
