package factory

import (
	"fmt"

	"doccoder-be/pkg/llm"
	"doccoder-be/pkg/llm/anthropic"
	"doccoder-be/pkg/llm/ollama"
	"doccoder-be/pkg/llm/openai"
)

const defaultOllamaURL = "http://localhost:11434"

// NewLLMProvider builds a client for one backend. apiKey is ignored by ollama,
// baseURL is ignored by anthropic.
func NewLLMProvider(providerType, modelName, apiKey, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "xai":
		if baseURL == "" {
			baseURL = openai.XAIBaseURL
		}
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "anthropic":
		return anthropic.NewAnthropicProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
