package domain

import "context"

// Generator is the text-generation contract shared between layers.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// HealthChecker verifies backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Field is a named prompt input.
type Field struct {
	Name  string
	Value string
}

// GenerationRequest describes one structured prompt: an instruction, named inputs
// and the name of the JSON output field the backend must fill.
type GenerationRequest struct {
	Instruction       string
	Inputs            []Field
	Output            string
	OutputDescription string
}

// GenerationResult carries the raw backend content and token usage through the decorator chain.
type GenerationResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
