package usage

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// --- Mock ---

type mockBudgetReader struct {
	dailyLimit       int64
	monthlyLimit     int64
	dailyUsed        int64
	monthlyUsed      int64
	remainingDaily   int64
	remainingMonthly int64
}

func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.remainingDaily }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.remainingMonthly }

func fixedClock(svc *Service) {
	svc.now = func() time.Time { return time.Date(2026, 2, 14, 15, 4, 5, 0, time.UTC) }
}

// --- Tests ---

func TestGetReport_DailyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		dailyLimit:       10000,
		dailyUsed:        3000,
		remainingDaily:   7000,
		monthlyLimit:     100000,
		monthlyUsed:      50000,
		remainingMonthly: 50000,
	}
	svc := New(br, "gemini", "gemini-2.5-flash")
	fixedClock(svc)

	r := svc.GetReport(context.Background(), domain.PeriodDay)

	if r.Period != domain.PeriodDay {
		t.Errorf("expected period %q, got %q", domain.PeriodDay, r.Period)
	}
	dayStart := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart != dayStart.UnixMilli() {
		t.Errorf("expected period start %d, got %d", dayStart.UnixMilli(), r.PeriodStart)
	}
	if r.PeriodEnd != dayStart.Add(24*time.Hour).UnixMilli() {
		t.Errorf("unexpected period end %d", r.PeriodEnd)
	}
	if r.Limit != 10000 || r.Remaining != 7000 || r.TokensUsed != 3000 {
		t.Errorf("unexpected budget: %+v", r)
	}
	if r.Exhausted {
		t.Error("budget should not be exhausted")
	}
	if r.Provider != "gemini" || r.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected provider/model: %q %q", r.Provider, r.Model)
	}
}

func TestGetReport_MonthlyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		monthlyLimit:     100000,
		monthlyUsed:      80000,
		remainingMonthly: 20000,
	}
	svc := New(br, "gemini", "m")
	fixedClock(svc)

	r := svc.GetReport(context.Background(), domain.PeriodMonth)

	monthStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart != monthStart.UnixMilli() {
		t.Errorf("expected period start %d, got %d", monthStart.UnixMilli(), r.PeriodStart)
	}
	if r.PeriodEnd != time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("unexpected period end %d", r.PeriodEnd)
	}
	if r.Limit != 100000 || r.TokensUsed != 80000 {
		t.Errorf("unexpected budget: %+v", r)
	}
}

func TestGetReport_NilBudgetReader(t *testing.T) {
	svc := New(nil, "gemini", "m")
	r := svc.GetReport(context.Background(), domain.PeriodDay)

	if r.Limit != -1 || r.Remaining != -1 {
		t.Errorf("expected unlimited budget, got limit=%d remaining=%d", r.Limit, r.Remaining)
	}
	if r.Exhausted {
		t.Error("nil budget reader should not be exhausted")
	}
}

func TestGetReport_UnlimitedPeriod(t *testing.T) {
	br := &mockBudgetReader{dailyLimit: 0, dailyUsed: 42, remainingDaily: -1}
	r := New(br, "gemini", "m").GetReport(context.Background(), domain.PeriodDay)

	if r.Limit != -1 || r.Remaining != -1 || r.TokensUsed != 42 {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestGetReport_Exhausted(t *testing.T) {
	br := &mockBudgetReader{
		dailyLimit:     5000,
		dailyUsed:      5000,
		remainingDaily: 0,
	}
	r := New(br, "gemini", "m").GetReport(context.Background(), domain.PeriodDay)

	if !r.Exhausted {
		t.Error("budget should be exhausted when remaining is 0")
	}
}
