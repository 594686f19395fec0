package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"doccoder-be/internal/pkg/logger"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/llm"
)

// fakeLLM answers with the reply whose key occurs in the prompt.
type fakeLLM struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return f.Generate(ctx, prompt, opts...)
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	for k, v := range f.replies {
		if strings.Contains(prompt, k) {
			return v, nil
		}
	}
	return "", nil
}

func (f *fakeLLM) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, key) {
			n++
		}
	}
	return n
}

func newFakeAI(p llm.LLMProvider) *ai.Service {
	return ai.NewService(func(string) (llm.LLMProvider, error) { return p, nil }, logger.NewNopLogger())
}

func keyFailureAI() *ai.Service {
	return ai.NewService(func(string) (llm.LLMProvider, error) {
		return nil, errors.Join(errors.New("OpenAI API key missing."), llm.ErrProviderKey)
	}, logger.NewNopLogger())
}
