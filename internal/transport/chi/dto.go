package chi

import (
	"time"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeQuotaExceeded    = "generation_quota_exceeded"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternalError    = "internal_error"
)

// unauthorizedMessage is the only message sent with a 401, whatever the cause.
const unauthorizedMessage = "invalid or missing credentials"

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type topicsRequest struct {
	FileIDs []string `json:"file_ids"`
}

type matchTopicsRequest struct {
	FileIDs []string  `json:"file_ids"`
	Topics  *[]string `json:"topics,omitempty"`
}

type topicsResponse struct {
	Topics    domain.Topics `json:"topics"`
	FileCount int           `json:"file_count"`
}

type matchTopicsResponse struct {
	MatchedTopics domain.Topics `json:"matched_topics"`
	FileCount     int           `json:"file_count"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type budgetStatus struct {
	TokensLimit     int64 `json:"tokens_limit"`
	TokensRemaining int64 `json:"tokens_remaining"`
	IsExhausted     bool  `json:"is_exhausted"`
}

type usageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt time.Time    `json:"period_start_at"`
	PeriodEndAt   time.Time    `json:"period_end_at"`
	Provider      string       `json:"provider"`
	Model         string       `json:"model"`
	Tokens        int64        `json:"tokens"`
	Budget        budgetStatus `json:"budget"`
}

func usageToResponse(r domain.UsageReport) usageResponse {
	return usageResponse{
		Period:        string(r.Period),
		PeriodStartAt: time.UnixMilli(r.PeriodStart).UTC(),
		PeriodEndAt:   time.UnixMilli(r.PeriodEnd).UTC(),
		Provider:      r.Provider,
		Model:         r.Model,
		Tokens:        r.TokensUsed,
		Budget: budgetStatus{
			TokensLimit:     r.Limit,
			TokensRemaining: r.Remaining,
			IsExhausted:     r.Exhausted,
		},
	}
}
