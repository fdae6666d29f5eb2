package domain

import "fmt"

// Period is the usage aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period query value. Empty defaults to month.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodMonth, nil
	case PeriodDay, PeriodMonth:
		return Period(s), nil
	default:
		return "", fmt.Errorf("%w: period must be \"day\" or \"month\", got %q", ErrBadRequest, s)
	}
}

// UsageReport describes generation token consumption against the budget for one period.
// Limit and Remaining are -1 when the period is unlimited.
type UsageReport struct {
	Period      Period
	PeriodStart int64 // unix millis
	PeriodEnd   int64 // unix millis
	Provider    string
	Model       string
	TokensUsed  int64
	Limit       int64
	Remaining   int64
	Exhausted   bool
}
