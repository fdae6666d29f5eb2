package domain

// KeyPrefix namespaces every key topicd writes to the key-value store.
const KeyPrefix = "topicd:"

// GenerationConfig holds the default text-generation backend settings.
type GenerationConfig struct {
	BaseURL     string
	Model       string
	Temperature float32
}

// DefaultGenerationConfig targets the Gemini OpenAI-compatible endpoint.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
		Model:       "gemini-2.5-flash",
		Temperature: 0,
	}
}
