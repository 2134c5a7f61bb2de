package factory

import (
	"fmt"

	"avatar-trainer-be/pkg/llm"
	"avatar-trainer-be/pkg/llm/ollama"
	"avatar-trainer-be/pkg/llm/openai"
)

// NewLLMProvider builds the configured LLM backend. Provider "none" (or empty)
// returns nil: callers treat a nil provider as "deterministic path only".
func NewLLMProvider(provider, model, ollamaBaseURL, openAIKey string) (llm.LLMProvider, error) {
	switch provider {
	case "openai":
		if openAIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(openAIKey, model), nil
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model), nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
